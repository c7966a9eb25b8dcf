package types

import (
	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pos"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// Config holds the environment defaults shared by the command line tools.
type Config struct {
	ProfilePath string `envconfig:"POSTAG_PROFILE_PATH" default:""`
	Workers     int    `envconfig:"POSTAG_WORKERS" default:"1"`
	Encoding    string `envconfig:"POSTAG_ENCODING" default:"utf-8"`
	Enhanced    bool   `envconfig:"POSTAG_ENHANCED" default:"false"`
}

func ReadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// Profile is a named set of tagging options stored as YAML.
type Profile struct {
	Name        string `yaml:"-" json:"name"`
	FilePath    string `yaml:"-" json:"file_path"`
	Mode        string `yaml:"mode" json:"mode"`
	Workers     int    `yaml:"workers" json:"workers"`
	Encoding    string `yaml:"encoding" json:"encoding"`
	TaggedInput bool   `yaml:"tagged_input" json:"tagged_input"`
}

// Options is the resolved set of settings a tagging or scoring run uses.
type Options struct {
	Mode        pos.Mode
	Workers     int
	Encoding    corpus.Encoding
	TaggedInput bool
}

// Options resolves the environment defaults, overridden by the profile.
func (cfg Config) Options(profile *Profile) (Options, error) {
	opts := Options{Mode: pos.ModeBasic, Workers: cfg.Workers}
	if cfg.Enhanced {
		opts.Mode = pos.ModeEnhanced
	}
	encoding := cfg.Encoding
	if profile != nil {
		if profile.Mode != "" {
			mode, err := pos.ParseMode(profile.Mode)
			if err != nil {
				return opts, fmt.Errorf("profile %s: %w", profile.Name, err)
			}
			opts.Mode = mode
		}
		if profile.Workers > 0 {
			opts.Workers = profile.Workers
		}
		if profile.Encoding != "" {
			encoding = profile.Encoding
		}
		opts.TaggedInput = profile.TaggedInput
	}
	enc, err := corpus.ParseEncoding(encoding)
	if err != nil {
		return opts, err
	}
	opts.Encoding = enc
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return opts, nil
}

func LoadProfile(filePath string) (Profile, error) {
	profile := Profile{
		Name:     strings.TrimSuffix(path.Base(filePath), ".yaml"),
		FilePath: filePath,
	}
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return profile, err
	}
	if err := yaml.Unmarshal(buf, &profile); err != nil {
		return profile, fmt.Errorf("profile %s: %w", filePath, err)
	}
	if _, err := pos.ParseMode(profile.Mode); err != nil {
		return profile, fmt.Errorf("profile %s: %w", filePath, err)
	}
	return profile, nil
}

// LoadProfiles loads every *.yaml file of dirPath. Invalid files are logged
// and skipped. The result is sorted by name.
func LoadProfiles(dirPath string) ([]Profile, error) {
	postagLogger := logger.NewLogger("LoadProfiles")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	profileChan := make(chan Profile, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			profile, err := LoadProfile(path.Join(dirPath, name))
			if err != nil {
				postagLogger.Err(err).Str("file", name).Msg("Skipping invalid profile")
				return
			}
			profileChan <- profile
		}(f.Name())
	}

	go func() {
		wg.Wait()
		close(profileChan)
	}()

	profiles := make([]Profile, 0, len(files))
	for profile := range profileChan {
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}
