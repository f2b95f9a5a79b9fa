package store

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config provides the locations the store operates on: the per-user keystore
// for the private scope and the project root holding the shared file.
type Config interface {
	BasePath() string
	ProjectRoot() string
	Project() string
}

// LoadConfig resolves configuration from a .shelf config file found in the
// working directory (or SHELF_CONFIG_PATH), with SHELF_* environment
// overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.shelf.db")
	viper.SetDefault("project-root", ".")
	viper.SetConfigName(".shelf") // .yaml is implicit
	viper.SetEnvPrefix("SHELF")
	viper.AutomaticEnv()

	if override := os.Getenv("SHELF_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	base, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(viper.GetString("project-root"))
	if err != nil {
		return nil, err
	}
	project := viper.GetString("project")
	if project == "" {
		project = filepath.Base(root)
	}

	return &fileConfig{Path: base, Root: root, Name: project}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	Root string `json:"project-root"`
	Name string `json:"project"`
}

func (f *fileConfig) BasePath() string    { return f.Path }
func (f *fileConfig) ProjectRoot() string { return f.Root }
func (f *fileConfig) Project() string     { return f.Name }
