package transport

import (
	"encoding/json"
	"encoding/xml"
	"unicode/utf8"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

// DecodeJSON checks the response status and decodes a JSON body into target.
func DecodeJSON(resp *Response, source string, target any) error {
	if err := Check(resp, source); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return errors.WrapParse("json", source+" response", err)
	}
	return nil
}

// DecodeXML checks the response status and decodes an XML body into target.
func DecodeXML(resp *Response, source string, target any) error {
	if err := Check(resp, source); err != nil {
		return err
	}
	if err := xml.Unmarshal(resp.Body, target); err != nil {
		return errors.WrapParse("xml", source+" response", err)
	}
	return nil
}

// Check turns a non-ok response into an *errors.APIError.
func Check(resp *Response, source string) error {
	if resp.OK {
		return nil
	}
	return errors.NewAPIError(source, resp.StatusCode, truncate(string(resp.Body), maxErrorBody))
}

const maxErrorBody = 200

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
