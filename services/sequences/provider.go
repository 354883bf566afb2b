package sequences

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"primerdesign/api/models"
)

// Provider resolves an identifier (gene symbol or accession) to raw
// sequence text. The text may be FASTA and is normalized by the caller.
type Provider interface {
	Fetch(ctx context.Context, identifier string) (string, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, identifier string) (string, error)

func (f ProviderFunc) Fetch(ctx context.Context, identifier string) (string, error) {
	return f(ctx, identifier)
}

var retryableStatuses = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s returned %d", e.url, e.status)
}

// RemoteProvider fetches genomic sequence from Ensembl REST, falling back to
// NCBI E-utilities when Ensembl cannot resolve the identifier.
type RemoteProvider struct {
	client     *http.Client
	ensemblUrl string
	ncbiUrl    string
	apiKey     string
	species    string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewRemoteProvider(cfg *models.Config, logger *zap.Logger) *RemoteProvider {
	interval := cfg.Provider.MinInterval
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &RemoteProvider{
		client:     &http.Client{},
		ensemblUrl: strings.TrimRight(cfg.Provider.EnsemblUrl, "/"),
		ncbiUrl:    strings.TrimRight(cfg.Provider.NcbiUrl, "/"),
		apiKey:     cfg.Provider.ApiKey,
		species:    cfg.Provider.Species,
		timeout:    cfg.Provider.Timeout,
		maxRetries: cfg.Provider.MaxRetries,
		retryDelay: time.Second,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger.Named("provider"),
	}
}

func (p *RemoteProvider) Fetch(ctx context.Context, identifier string) (string, error) {
	seq, ensemblErr := p.fetchEnsembl(ctx, identifier)
	if ensemblErr == nil {
		return seq, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	p.logger.Warn("ensembl lookup failed, falling back to NCBI",
		zap.String("identifier", identifier), zap.Error(ensemblErr))

	seq, ncbiErr := p.fetchNcbi(ctx, identifier)
	if ncbiErr == nil {
		return seq, nil
	}
	return "", fmt.Errorf("ensembl: %v; ncbi: %w", ensemblErr, ncbiErr)
}

func (p *RemoteProvider) fetchEnsembl(ctx context.Context, identifier string) (string, error) {
	stableId := identifier
	if !strings.HasPrefix(strings.ToUpper(identifier), "ENS") {
		body, err := p.get(ctx, fmt.Sprintf("%s/lookup/symbol/%s/%s", p.ensemblUrl, p.species, url.PathEscape(identifier)), nil, "application/json")
		if err != nil {
			return "", err
		}
		parsed, err := gabs.ParseJSON(body)
		if err != nil {
			return "", fmt.Errorf("malformed lookup response: %w", err)
		}
		id, ok := parsed.Path("id").Data().(string)
		if !ok || id == "" {
			return "", errors.New("lookup response has no stable id")
		}
		stableId = id
	}

	body, err := p.get(ctx, fmt.Sprintf("%s/sequence/id/%s", p.ensemblUrl, url.PathEscape(stableId)),
		url.Values{"type": {"genomic"}}, "application/json")
	if err != nil {
		return "", err
	}
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return "", fmt.Errorf("malformed sequence response: %w", err)
	}
	seq, ok := parsed.Path("seq").Data().(string)
	if !ok {
		return "", errors.New("sequence response has no seq field")
	}
	return seq, nil
}

func (p *RemoteProvider) fetchNcbi(ctx context.Context, identifier string) (string, error) {
	search := url.Values{
		"db":      {"nuccore"},
		"term":    {fmt.Sprintf("%s[Gene Name] AND %s[Organism] AND refseqgene[Filter]", identifier, organism(p.species))},
		"retmode": {"json"},
		"retmax":  {"1"},
	}
	if p.apiKey != "" {
		search.Set("api_key", p.apiKey)
	}

	body, err := p.get(ctx, p.ncbiUrl+"/esearch.fcgi", search, "application/json")
	if err != nil {
		return "", err
	}
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return "", fmt.Errorf("malformed esearch response: %w", err)
	}
	ids, _ := parsed.Path("esearchresult.idlist").Children()
	if len(ids) == 0 {
		return "", fmt.Errorf("no NCBI record for %q", identifier)
	}
	id, _ := ids[0].Data().(string)

	fetch := url.Values{
		"db":      {"nuccore"},
		"id":      {id},
		"rettype": {"fasta"},
		"retmode": {"text"},
	}
	if p.apiKey != "" {
		fetch.Set("api_key", p.apiKey)
	}
	body, err = p.get(ctx, p.ncbiUrl+"/efetch.fcgi", fetch, "text/plain")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func organism(species string) string {
	if species == "" || species == "homo_sapiens" {
		return "human"
	}
	return strings.ReplaceAll(species, "_", " ")
}

// get issues a throttled GET, retrying 500/502/503/504 with exponential
// backoff. Each attempt is bounded by the provider timeout.
func (p *RemoteProvider) get(ctx context.Context, endpoint string, query url.Values, accept string) ([]byte, error) {
	target := endpoint
	if len(query) > 0 {
		target = endpoint + "?" + query.Encode()
	}

	var (
		body     []byte
		finalErr error
	)
	operation := func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			finalErr = err
			return nil
		}

		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.timeout)
		}
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
		if err != nil {
			finalErr = err
			return nil
		}
		req.Header.Set("Accept", accept)
		req.Header.Set("Content-Type", accept)

		res, err := p.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				finalErr = ctx.Err()
				return nil
			}
			return err
		}
		defer res.Body.Close()

		if retryableStatuses[res.StatusCode] {
			return &statusError{url: endpoint, status: res.StatusCode}
		}
		if res.StatusCode != http.StatusOK {
			finalErr = &statusError{url: endpoint, status: res.StatusCode}
			return nil
		}

		body, err = io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		finalErr = nil
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.retryDelay
	retryErr := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(p.maxRetries)), ctx))
	if retryErr != nil {
		p.logger.Debug("provider request exhausted retries", zap.String("url", endpoint), zap.Error(retryErr))
		return nil, retryErr
	}
	return body, finalErr
}
