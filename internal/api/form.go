package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"spl-token-creator/internal/domain"
)

// parseCreateForm reads a multipart creation form. Missing optional values
// keep the request defaults; required ones are left for Validate.
func parseCreateForm(r *http.Request, maxBytes int64) (domain.TokenCreationRequest, error) {
	req := domain.NewTokenCreationRequest()

	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return req, fmt.Errorf("parse form: %w", err)
	}

	field := func(name string) string {
		return strings.TrimSpace(r.FormValue(name))
	}

	req.Name = field("name")
	req.Symbol = field("symbol")
	req.Description = field("description")
	req.Website = field("website")
	req.Twitter = field("twitter")
	req.Telegram = field("telegram")
	req.Discord = field("discord")

	if v := field("decimals"); v != "" {
		d, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return req, fmt.Errorf("invalid decimals %q", v)
		}
		req.Decimals = uint8(d)
	}
	if v := field("supply"); v != "" {
		supply, err := decimal.NewFromString(v)
		if err != nil {
			return req, fmt.Errorf("invalid supply %q", v)
		}
		req.Supply = supply
	}
	req.RevokeFreeze = parseBool(field("revokeFreeze"), req.RevokeFreeze)
	req.RevokeMint = parseBool(field("revokeMint"), req.RevokeMint)

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return req, fmt.Errorf("read image: %w", err)
		}
		req.Image = domain.Image{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	} else if err != http.ErrMissingFile {
		return req, fmt.Errorf("read image: %w", err)
	}

	return req, nil
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	switch strings.ToLower(s) {
	case "on":
		return true
	case "off":
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseMillis(s string, def int64) (int64, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return n, nil
}
