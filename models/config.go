package models

import "time"

type Config struct {
	Debug bool `yaml:"debug" envconfig:"PRIMERS_DEBUG" default:"false"`

	Api struct {
		Url                    string        `yaml:"url"`
		Port                   string        `yaml:"port" envconfig:"PRIMERS_API_INTERNAL_PORT" default:"5000"`
		ResultCount            int           `yaml:"resultCount" envconfig:"PRIMERS_API_RESULT_COUNT" default:"5"`
		MaxCandidates          int           `yaml:"maxCandidates" envconfig:"PRIMERS_API_MAX_CANDIDATES" default:"250000"`
		DesignConcurrencyLevel int           `yaml:"designConcurrencyLevel" envconfig:"PRIMERS_API_DESIGN_CONCURRENCY_LEVEL" default:"3"`
		JobRetention           time.Duration `yaml:"jobRetention" envconfig:"PRIMERS_API_JOB_RETENTION" default:"24h"`
	} `yaml:"api"`

	Remote struct {
		Enabled bool          `yaml:"enabled" envconfig:"PRIMERS_REMOTE_ENABLED" default:"false"`
		Url     string        `yaml:"url" envconfig:"PRIMERS_REMOTE_URL"`
		Timeout time.Duration `yaml:"timeout" envconfig:"PRIMERS_REMOTE_TIMEOUT" default:"10s"`
	} `yaml:"remote"`

	Provider struct {
		EnsemblUrl  string        `yaml:"ensemblUrl" envconfig:"PRIMERS_ENSEMBL_URL" default:"https://rest.ensembl.org"`
		NcbiUrl     string        `yaml:"ncbiUrl" envconfig:"PRIMERS_NCBI_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
		ApiKey      string        `yaml:"apiKey" envconfig:"PRIMERS_NCBI_API_KEY"`
		Species     string        `yaml:"species" envconfig:"PRIMERS_SPECIES" default:"homo_sapiens"`
		Timeout     time.Duration `yaml:"timeout" envconfig:"PRIMERS_PROVIDER_TIMEOUT" default:"45s"`
		MaxRetries  int           `yaml:"maxRetries" envconfig:"PRIMERS_PROVIDER_MAX_RETRIES" default:"3"`
		MinInterval time.Duration `yaml:"minInterval" envconfig:"PRIMERS_PROVIDER_MIN_INTERVAL" default:"340ms"`
	} `yaml:"provider"`

	Elasticsearch struct {
		Url               string        `yaml:"url" envconfig:"PRIMERS_ES_URL"`
		Username          string        `yaml:"username" envconfig:"PRIMERS_ES_USERNAME"`
		Password          string        `yaml:"password" envconfig:"PRIMERS_ES_PASSWORD"`
		SequenceRetention time.Duration `yaml:"sequenceRetention" envconfig:"PRIMERS_ES_SEQUENCE_RETENTION" default:"720h"`
		Timeout           time.Duration `yaml:"timeout" envconfig:"PRIMERS_ES_TIMEOUT" default:"5s"`
	} `yaml:"elasticsearch"`

	AuthX struct {
		IsAuthorizationEnabled bool          `yaml:"isAuthorizationEnabled" envconfig:"PRIMERS_AUTHZ_ENABLED" default:"false"`
		AuthorizationUrl       string        `yaml:"authorizationUrl" envconfig:"PRIMERS_AUTHZ_URL"`
		Timeout                time.Duration `yaml:"timeout" envconfig:"PRIMERS_AUTHZ_TIMEOUT" default:"10s"`
	} `yaml:"authX"`
}
