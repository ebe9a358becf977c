package briefgen

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrUpstream covers network failures, timeouts and non-success
	// responses from the model provider after retries are exhausted.
	ErrUpstream = goerr.New("LLM upstream request failed")

	// ErrParseFailure is terminal: the model output could not be coerced
	// into the brief schema even after one repair attempt.
	ErrParseFailure = goerr.New("failed to parse LLM output into brief schema")

	// ErrMalformedJSON tags output that contains no decodable JSON object.
	ErrMalformedJSON = goerr.New("no well-formed JSON object in LLM output")

	// ErrSchemaViolation tags decodable JSON that does not match the brief
	// shape.
	ErrSchemaViolation = goerr.New("LLM output violates brief schema")
)
