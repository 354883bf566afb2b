package dtos

import (
	"strings"
	"time"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
	"primerdesign/api/models/indexes"
	"primerdesign/api/services/sequences"
)

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}

type GeneralError struct {
	Message string `json:"message"`
}

// DesignResponseDTO is the caller-facing design outcome. Results is empty
// (never null) unless Status is success.
type DesignResponseDTO struct {
	Status  constants.ResponseStatus `json:"status"`
	Message string                   `json:"message,omitempty"`
	Target  string                   `json:"target"`
	Result  *models.DesignResult     `json:"result,omitempty"`
	Results []models.RankedDesign    `json:"results"`
}

// DesignRequestDTO is the JSON body accepted by POST /primers/design.
type DesignRequestDTO struct {
	Gene       string                   `json:"gene,omitempty"`
	Identifier string                   `json:"identifier,omitempty"`
	Sequence   string                   `json:"sequence,omitempty"`
	Parameters *models.DesignParameters `json:"parameters,omitempty"`
}

// Target prefers a sequence over an identifier over a gene symbol.
func (d DesignRequestDTO) Target() string {
	for _, t := range []string{d.Sequence, d.Identifier, d.Gene} {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

type BatchDesignRequestDTO struct {
	Identifiers []string                 `json:"identifiers"`
	Parameters  *models.DesignParameters `json:"parameters,omitempty"`
}

type PrimerAnalysisResponseDTO struct {
	Sequence          string  `json:"sequence"`
	Length            int     `json:"length"`
	GcPercent         float64 `json:"gcPercent"`
	MeltingTemp       float64 `json:"meltingTemperature"`
	TmFormula         string  `json:"tmFormula"`
	LongestRun        int     `json:"longestRun"`
	HasPolyRun        bool    `json:"hasPolyRun"`
	SelfDimerRun      int     `json:"selfDimerRun"`
	HasSelfDimer      bool    `json:"hasSelfDimer"`
	HasGcClamp        bool    `json:"hasGcClamp"`
	ReverseComplement string  `json:"reverseComplement"`
}

type SequenceResponseDTO struct {
	Identifier string  `json:"identifier"`
	Length     int     `json:"length"`
	GcPercent  float64 `json:"gcPercent"`
	Sequence   string  `json:"sequence,omitempty"`
}

type SequencesOverviewDTO struct {
	Cache sequences.CacheOverview `json:"cache"`
}

type DesignHistoryResponseDTO struct {
	Identifier string                   `json:"identifier"`
	Count      int                      `json:"count"`
	Results    []indexes.DesignDocument `json:"results"`
}
