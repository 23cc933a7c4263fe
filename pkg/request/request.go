// Package request implements ctproof payment request URIs.
//
// A payment request tells a prover who to pay and, optionally, how much.
// It can be shared as text or a QR code and fed to "ctproof prover --request".
//
// URI Format:
//
//	ctproof:<base58 receiver key>?amount=<u64>&label=<label>&message=<message>
//
// A transaction carries exactly one receiver, so indexed multi-recipient
// parameters (address.1=...) are rejected. As in BIP 21, parameters prefixed
// with "req-" must be understood, so unknown ones fail the parse.
package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/suffix-labs/ctproof/pkg/api"
	"github.com/suffix-labs/ctproof/pkg/keys"
)

// Scheme is the URI scheme of a payment request.
const Scheme = "ctproof"

// PaymentRequest is a parsed payment request.
type PaymentRequest struct {
	Receiver *keys.PublicKey // Required
	Amount   *uint64         // nil = payer chooses
	Label    *string         // Optional label for the receiver
	Message  *string         // Optional message to show the payer
}

// Parse parses a payment request URI. The "ctproof:" prefix is required
// and matched case-insensitively.
//
// Example:
//
//	req, err := request.Parse("ctproof:<key>?amount=42&label=coffee")
func Parse(uri string) (*PaymentRequest, error) {
	if len(uri) < len(Scheme)+1 || !strings.EqualFold(uri[:len(Scheme)+1], Scheme+":") {
		return nil, fmt.Errorf("payment request must start with %q", Scheme+":")
	}
	rest := uri[len(Scheme)+1:]

	receiverStr, query, _ := strings.Cut(rest, "?")
	if receiverStr == "" {
		return nil, fmt.Errorf("payment request has no receiver")
	}

	receiver, err := keys.ParsePublicKeyBase58(receiverStr)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver: %w", err)
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	req := &PaymentRequest{Receiver: receiver}
	for name, values := range params {
		if len(values) != 1 {
			return nil, fmt.Errorf("parameter %q given %d times", name, len(values))
		}
		value := values[0]

		switch {
		case name == "amount":
			amount, err := api.ParseAmount(value)
			if err != nil {
				return nil, fmt.Errorf("invalid amount: %w", err)
			}
			req.Amount = &amount
		case name == "label":
			req.Label = &value
		case name == "message":
			req.Message = &value
		case isIndexed(name):
			return nil, fmt.Errorf("multiple recipients are not supported (parameter %q)", name)
		case strings.HasPrefix(name, "req-"):
			return nil, fmt.Errorf("unsupported required parameter %q", name)
		}
	}

	return req, nil
}

// isIndexed reports whether name has the form "param.N".
func isIndexed(name string) bool {
	_, idx, ok := strings.Cut(name, ".")
	if !ok {
		return false
	}
	_, err := strconv.ParseUint(idx, 10, 16)
	return err == nil
}

// Encode creates the URI for req. It is the inverse of Parse.
func (req *PaymentRequest) Encode() string {
	uri := Scheme + ":" + req.Receiver.Base58()

	params := url.Values{}
	if req.Amount != nil {
		params.Add("amount", strconv.FormatUint(*req.Amount, 10))
	}
	if req.Label != nil {
		params.Add("label", *req.Label)
	}
	if req.Message != nil {
		params.Add("message", *req.Message)
	}

	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}
