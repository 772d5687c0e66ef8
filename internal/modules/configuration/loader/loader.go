package loader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/configwatch/config-slack-bot/internal/modules/configuration/domain"
	"github.com/samber/oops"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Loader fetches an uploaded configuration file with the bot credential,
// parses it and validates it against the configuration schema.
//
// Failure modes callers are expected to handle: *SyntaxError for malformed
// YAML and *SchemaError for schema violations. Anything else (transport
// failures, bad status codes) is unclassified and left to the caller.
type Loader struct {
	client *http.Client
	token  string
	schema *jsonschema.Schema
}

// New creates a loader using the given bot token as bearer credential
func New(token string, timeout time.Duration) (*Loader, error) {
	schema, err := jsonschema.CompileString("channel-configuration.schema.json", configurationSchema)
	if err != nil {
		return nil, oops.With("context", "compiling configuration schema").Wrap(err)
	}

	return &Loader{
		client: &http.Client{Timeout: timeout},
		token:  token,
		schema: schema,
	}, nil
}

// Load downloads and validates a candidate, returning the parsed payload
func (l *Loader) Load(ctx context.Context, candidate domain.FileCandidate) (*domain.RuleSet, error) {
	raw, err := l.fetch(ctx, candidate.DownloadURL)
	if err != nil {
		return nil, err
	}
	return l.Parse(raw)
}

// Parse validates raw file bytes and decodes them into a rule set
func (l *Loader) Parse(raw []byte) (*domain.RuleSet, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &SyntaxError{Err: err}
	}

	// The schema validator expects JSON-decoded value types, so round-trip
	// the YAML document through encoding/json before validating.
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}
	var jsonDoc interface{}
	if err := json.Unmarshal(jsonBytes, &jsonDoc); err != nil {
		return nil, &SyntaxError{Err: err}
	}

	if err := l.schema.Validate(jsonDoc); err != nil {
		return nil, &SchemaError{Err: err}
	}

	var rules domain.RuleSet
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, &SyntaxError{Err: err}
	}

	return &rules, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, oops.With("url", url, "context", "building file request").Wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+l.token)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, oops.With("url", url, "context", "downloading configuration file").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, oops.With("url", url, "status", resp.StatusCode).Errorf("unexpected status downloading configuration file")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, oops.With("url", url, "context", "reading configuration file body").Wrap(err)
	}

	return raw, nil
}
