package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SiteConfig describes the public site for feeds and sitemaps
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Author      string `yaml:"author"`
	Language    string `yaml:"language"`
}

func defaultSite() SiteConfig {
	return SiteConfig{
		Title:       "Portfolio",
		Description: "Articles, projects and notes",
		BaseURL:     "http://localhost:8080",
		Language:    "en",
	}
}

// LoadSite reads the YAML site file at path (if present), merges it over the
// defaults and applies SITE_* environment overrides.
func LoadSite(path string) (SiteConfig, error) {
	site := defaultSite()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return site, fmt.Errorf("read site config %s: %w", path, err)
		default:
			var fileSite SiteConfig
			if err := yaml.Unmarshal(raw, &fileSite); err != nil {
				return site, fmt.Errorf("parse site config %s: %w", path, err)
			}
			site = mergeSite(site, fileSite)
		}
	}

	site = mergeSite(site, SiteConfig{
		Title:       os.Getenv("SITE_TITLE"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		BaseURL:     os.Getenv("SITE_BASE_URL"),
		Author:      os.Getenv("SITE_AUTHOR"),
		Language:    os.Getenv("SITE_LANGUAGE"),
	})
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")

	return site, nil
}

func mergeSite(base, override SiteConfig) SiteConfig {
	if override.Title != "" {
		base.Title = override.Title
	}
	if override.Description != "" {
		base.Description = override.Description
	}
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.Author != "" {
		base.Author = override.Author
	}
	if override.Language != "" {
		base.Language = override.Language
	}
	return base
}
