package electionboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/jpalmerr/electionboard/results"
)

// DefaultCallbackName is the function name the results feed wraps its payload in.
const DefaultCallbackName = "callback"

// PayloadDecoder turns the body of a feed response into [results.Results].
//
// Decoders are called within a panic recovery boundary. A panicking decoder
// fails that poll with an error carrying a correlation ID; the next poll is
// scheduled as usual.
type PayloadDecoder func(body []byte) (results.Results, error)

// ErrNotJSONP is returned by [JSONPDecoder] when the body is not a call of the
// expected callback.
var ErrNotJSONP = errors.New("body is not a JSONP callback invocation")

var (
	utf8BOM = []byte("\xef\xbb\xbf")

	// anyCallback matches a JavaScript function name followed by its opening
	// parenthesis, e.g. "callback(" or "window.results (".
	anyCallback = regexp.MustCompile(`^[A-Za-z_$][\w$.]*\s*\(`)
)

// JSONDecoder decodes a plain JSON body.
var JSONDecoder PayloadDecoder = func(body []byte) (results.Results, error) {
	var r results.Results
	if err := json.Unmarshal(bytes.TrimPrefix(body, utf8BOM), &r); err != nil {
		return results.Results{}, fmt.Errorf("invalid results JSON: %w", err)
	}
	return r, nil
}

// JSONPDecoder returns a [PayloadDecoder] for a script that invokes callback
// with the results object, e.g. `callback({...});`.
//
// An empty callback accepts any function name.
//
// Example:
//
//	feed, err := electionboard.NewFeed(live, archive,
//	    electionboard.WithDecoder(electionboard.JSONPDecoder("resultats")),
//	)
func JSONPDecoder(callback string) PayloadDecoder {
	prefix := anyCallback
	if callback != "" {
		prefix = regexp.MustCompile(`^` + regexp.QuoteMeta(callback) + `\s*\(`)
	}

	return func(body []byte) (results.Results, error) {
		payload, err := unwrapJSONP(body, prefix)
		if err != nil {
			return results.Results{}, err
		}
		return JSONDecoder(payload)
	}
}

// unwrapJSONP strips the callback invocation around a JSONP payload.
func unwrapJSONP(body []byte, prefix *regexp.Regexp) ([]byte, error) {
	body = bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))

	loc := prefix.FindIndex(body)
	if loc == nil {
		return nil, ErrNotJSONP
	}
	body = bytes.TrimSpace(body[loc[1]:])
	body = bytes.TrimSuffix(body, []byte(";"))
	body = bytes.TrimSpace(body)

	if !bytes.HasSuffix(body, []byte(")")) {
		return nil, fmt.Errorf("%w: missing closing parenthesis", ErrNotJSONP)
	}
	return bytes.TrimSpace(body[:len(body)-1]), nil
}

// AutoDecoder returns a [PayloadDecoder] that decodes plain JSON when the body
// starts with an object and JSONP with the given callback otherwise.
func AutoDecoder(callback string) PayloadDecoder {
	jsonp := JSONPDecoder(callback)
	return func(body []byte) (results.Results, error) {
		trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return JSONDecoder(trimmed)
		}
		return jsonp(body)
	}
}

// DecoderForFormat returns the decoder for a named payload format:
// "jsonp" (the default when empty), "json" or "auto".
func DecoderForFormat(format, callback string) (PayloadDecoder, error) {
	switch format {
	case "", "jsonp":
		return JSONPDecoder(callback), nil
	case "json":
		return JSONDecoder, nil
	case "auto":
		return AutoDecoder(callback), nil
	default:
		return nil, fmt.Errorf("unknown feed format %q (want jsonp, json or auto)", format)
	}
}
