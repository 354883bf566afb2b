package design

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/mitchellh/mapstructure"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
	designSource "primerdesign/api/models/constants/design-source"
	"primerdesign/api/services/primers"
)

// remoteRequest is the parameter subset the remote service understands.
type remoteRequest struct {
	Sequence          string            `json:"sequence"`
	PrimerLengthRange models.IntRange   `json:"primer_length_range"`
	ProductSizeRange  models.IntRange   `json:"product_size_range"`
	TargetGcRange     models.FloatRange `json:"target_gc_range"`
	TargetTmRange     models.FloatRange `json:"target_tm_range"`
	MaxTmDifference   float64           `json:"max_tm_difference"`
	ResultCount       int               `json:"result_count"`
}

// RemoteStrategy asks an external design service for primer pairs, places
// them back on the template and re-validates them locally.
type RemoteStrategy struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

func NewRemoteStrategy(url string, timeout time.Duration) *RemoteStrategy {
	return &RemoteStrategy{
		client:  &http.Client{},
		url:     url,
		timeout: timeout,
	}
}

func (r *RemoteStrategy) Source() constants.DesignSource {
	return designSource.Remote
}

func (r *RemoteStrategy) Propose(ctx context.Context, seq models.Sequence, params models.DesignParameters) (*Proposal, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(remoteRequest{
		Sequence:          string(seq),
		PrimerLengthRange: params.PrimerLengthRange,
		ProductSizeRange:  params.ProductSizeRange,
		TargetGcRange:     params.TargetGcRange,
		TargetTmRange:     params.TargetTmRange,
		MaxTmDifference:   params.MaxTmDifference,
		ResultCount:       params.ResultCount,
	})
	if err != nil {
		return nil, &RemoteServiceError{Reason: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &RemoteServiceError{Reason: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &RemoteServiceError{Reason: fmt.Sprintf("timed out after %s", r.timeout), Err: ctx.Err()}
		}
		return nil, &RemoteServiceError{Reason: "transport failure", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &RemoteServiceError{Reason: fmt.Sprintf("status %d", res.StatusCode)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &RemoteServiceError{Reason: "reading response", Err: err}
	}

	records, err := parseRemotePairs(body)
	if err != nil {
		return nil, err
	}

	proposal := newProposal()
	for i, rec := range records {
		c, err := place(seq, rec, i)
		if err != nil {
			return nil, err
		}

		d := primers.Evaluate(c, params)
		d.ReportedMetrics = rec.Metrics
		proposal.Designs = append(proposal.Designs, d)
		proposal.Evaluated++
		proposal.StatusCounts[d.Report.Status]++
	}
	return proposal, nil
}

type remotePair struct {
	Forward     string
	Reverse     string
	ProductSize int
	Metrics     map[string]float64
}

// parseRemotePairs accepts either a bare array of records or an object
// holding them under "pairs" (or "results").
func parseRemotePairs(body []byte) ([]remotePair, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, &RemoteServiceError{Reason: "malformed response", Err: err}
	}

	list := parsed
	if _, isArray := parsed.Data().([]interface{}); !isArray {
		switch {
		case parsed.Exists("pairs"):
			list = parsed.Path("pairs")
		case parsed.Exists("results"):
			list = parsed.Path("results")
		default:
			return nil, &RemoteServiceError{Reason: "malformed response: no primer pair list"}
		}
	}

	children, err := list.Children()
	if err != nil {
		return nil, &RemoteServiceError{Reason: "malformed response: primer pairs are not a list", Err: err}
	}
	if len(children) == 0 {
		return nil, &RemoteServiceError{Reason: "response holds no primer pairs"}
	}

	pairs := make([]remotePair, 0, len(children))
	for i, child := range children {
		forward, okF := child.Path("forward").Data().(string)
		reverse, okR := child.Path("reverse").Data().(string)
		if !okF || !okR || forward == "" || reverse == "" {
			return nil, &RemoteServiceError{Reason: fmt.Sprintf("malformed response: record %d lacks forward/reverse sequences", i)}
		}

		pair := remotePair{
			Forward: strings.ToUpper(strings.TrimSpace(forward)),
			Reverse: strings.ToUpper(strings.TrimSpace(reverse)),
		}
		if size, ok := child.Path("product_size").Data().(float64); ok {
			pair.ProductSize = int(size)
		}

		if raw := child.Path("metrics").Data(); raw != nil {
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				WeaklyTypedInput: true,
				Result:           &pair.Metrics,
			})
			if err == nil {
				err = decoder.Decode(raw)
			}
			if err != nil {
				return nil, &RemoteServiceError{Reason: fmt.Sprintf("malformed response: record %d metrics", i), Err: err}
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// place locates a remote pair on the template: the forward primer as
// written, the reverse primer by its reverse complement downstream of it.
func place(seq models.Sequence, rec remotePair, order int) (models.PrimerCandidate, error) {
	template := string(seq)

	fStart := strings.Index(template, rec.Forward)
	if fStart < 0 {
		return models.PrimerCandidate{}, &RemoteServiceError{Reason: fmt.Sprintf("forward primer %s of record %d is not on the template", rec.Forward, order)}
	}
	fEnd := fStart + len(rec.Forward)

	binding := primers.ReverseComplement(rec.Reverse)
	offset := strings.Index(template[fEnd:], binding)
	if offset < 0 {
		return models.PrimerCandidate{}, &RemoteServiceError{Reason: fmt.Sprintf("reverse primer %s of record %d does not bind downstream of the forward primer", rec.Reverse, order)}
	}
	rStart := fEnd + offset
	product := rStart + len(rec.Reverse) - fStart

	// a reported size that disagrees with the placement means the pair
	// was designed against a different template
	if rec.ProductSize > 0 && rec.ProductSize != product {
		return models.PrimerCandidate{}, &RemoteServiceError{Reason: fmt.Sprintf("record %d reports a product of %d bp but places at %d bp", order, rec.ProductSize, product)}
	}

	return models.PrimerCandidate{
		Forward:     models.Primer{Sequence: rec.Forward, Start: fStart, Length: len(rec.Forward)},
		Reverse:     models.Primer{Sequence: rec.Reverse, Start: rStart, Length: len(rec.Reverse)},
		ProductSize: product,
		Order:       order,
	}, nil
}
