package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bankpulse/dashboard-api/internal/scraper"
)

const maxBodyBytes = 1 << 20

// ReanalyzeRequest is the accepted scraper run configuration
type ReanalyzeRequest struct {
	PrimeBankPosts  int `json:"prime_bank_posts"`
	OtherBanksPosts int `json:"other_banks_posts"`
}

func readBody(r *http.Request) (map[string]json.RawMessage, error) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.New("failed to read request body")
	}

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(b)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return fields, nil
}

func contentIs(fields map[string]json.RawMessage, want string) bool {
	var content string
	raw, ok := fields["content"]
	return ok && json.Unmarshal(raw, &content) == nil && content == want
}

// requireContent enforces the {"content": "<want>"} request marker
func requireContent(w http.ResponseWriter, r *http.Request, want string) bool {
	fields, err := readBody(r)
	if err == nil && contentIs(fields, want) {
		return true
	}
	respondError(w, http.StatusBadRequest, fmt.Sprintf(`Invalid request. Expected {"content": "%s"}`, want))
	return false
}

// parseCount accepts an integral JSON number or a numeric string
func parseCount(fields map[string]json.RawMessage, name string, def int) (int, error) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return def, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return v, nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func decodeReanalyze(r *http.Request) (*ReanalyzeRequest, error) {
	fields, err := readBody(r)
	if err != nil {
		return nil, err
	}
	if _, ok := fields["content"]; ok && !contentIs(fields, "reanalyze") {
		return nil, errors.New(`Invalid request. Expected {"content": "reanalyze"}`)
	}

	req := &ReanalyzeRequest{}
	if req.PrimeBankPosts, err = parseCount(fields, "prime_bank_posts", scraper.DefaultPrimeBankPosts); err != nil {
		return nil, err
	}
	if req.OtherBanksPosts, err = parseCount(fields, "other_banks_posts", scraper.DefaultOtherBanksPosts); err != nil {
		return nil, err
	}

	if err := checkCount("prime_bank_posts", req.PrimeBankPosts); err != nil {
		return nil, err
	}
	if err := checkCount("other_banks_posts", req.OtherBanksPosts); err != nil {
		return nil, err
	}
	return req, nil
}

func checkCount(name string, v int) error {
	if v < scraper.MinPosts || v > scraper.MaxPosts {
		return fmt.Errorf("%s must be between %d and %d", name, scraper.MinPosts, scraper.MaxPosts)
	}
	return nil
}
