package court

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yomanFX/vikula2/internal/domain"
)

// ─── HTTP Oracle ────────────────────────────────────────────────────────────
// The hosted judge is a serverless function fronting an LLM with a
// forced makeRuling tool call. The wire contract is one JSON POST:
//
//	→ {kind, category, description, points, subject,
//	   plaintiff_argument, defendant_argument}
//	← {verdict, new_magnitude?, reasoning}
//
// Anything that speaks this shape can stand in for the real judge.

// HTTPOracle calls a hosted judge endpoint.
type HTTPOracle struct {
	url    string
	client *http.Client
}

// NewHTTPOracle creates an oracle client. The timeout here is a transport
// ceiling; the court applies its own per-call deadline on top.
func NewHTTPOracle(url string, timeout time.Duration) *HTTPOracle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPOracle{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// oracleResponse is the judge endpoint's reply.
type oracleResponse struct {
	Verdict      string `json:"verdict"`
	NewMagnitude *int   `json:"new_magnitude,omitempty"`
	Reasoning    string `json:"reasoning"`
}

// Judge sends the case and parses the three-way verdict.
func (o *HTTPOracle) Judge(ctx context.Context, req Request) (Verdict, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: encode request: %v", domain.ErrOracleFailure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", domain.ErrOracleFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", domain.ErrOracleFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("%w: judge returned HTTP %d", domain.ErrOracleFailure, resp.StatusCode)
	}

	var parsed oracleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Verdict{}, fmt.Errorf("%w: decode response: %v", domain.ErrOracleFailure, err)
	}

	kind, err := ParseVerdictKind(parsed.Verdict)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{Kind: kind, Reasoning: parsed.Reasoning}
	if parsed.NewMagnitude != nil {
		v.NewMagnitude = *parsed.NewMagnitude
		v.HasMagnitude = true
	}
	return v, nil
}
