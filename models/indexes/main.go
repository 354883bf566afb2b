package indexes

import (
	"time"

	"primerdesign/api/models"
	c "primerdesign/api/models/constants"
)

const (
	SequencesIndex = "sequences"
	DesignsIndex   = "designs"
)

// SequenceDocument is a fetched, normalized template keyed by identifier.
type SequenceDocument struct {
	Identifier  string    `json:"identifier" mapstructure:"identifier"`
	Sequence    string    `json:"sequence" mapstructure:"sequence"`
	Length      int       `json:"length" mapstructure:"length"`
	CreatedTime time.Time `json:"createdTime" mapstructure:"createdTime"`
}

// DesignDocument archives one design request and its ranked output.
type DesignDocument struct {
	Id             string                  `json:"id" mapstructure:"id"`
	Identifier     string                  `json:"identifier" mapstructure:"identifier"`
	Source         c.DesignSource          `json:"source" mapstructure:"source"`
	SequenceLength int                     `json:"sequenceLength" mapstructure:"sequenceLength"`
	Parameters     models.DesignParameters `json:"parameters" mapstructure:"parameters"`
	Designs        []models.RankedDesign   `json:"designs" mapstructure:"designs"`
	Summary        models.DesignSummary    `json:"summary" mapstructure:"summary"`
	CreatedTime    time.Time               `json:"createdTime" mapstructure:"createdTime"`
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_KEYWORD = map[string]interface{}{"type": "keyword"}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_DATE = map[string]interface{}{"type": "date"}

// stored but not indexed
var MAPPING_OPAQUE = map[string]interface{}{"type": "object", "enabled": false}

var SEQUENCE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"identifier":  MAPPING_KEYWORD,
		"sequence":    map[string]interface{}{"type": "keyword", "index": false, "doc_values": false},
		"length":      MAPPING_LONG,
		"createdTime": MAPPING_DATE,
	},
}

var DESIGN_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"id":             MAPPING_KEYWORD,
		"identifier":     MAPPING_TEXT,
		"source":         MAPPING_KEYWORD,
		"sequenceLength": MAPPING_LONG,
		"parameters":     MAPPING_OPAQUE,
		"designs":        MAPPING_OPAQUE,
		"summary":        MAPPING_OPAQUE,
		"createdTime":    MAPPING_DATE,
	},
}
