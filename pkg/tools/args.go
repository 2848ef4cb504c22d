package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/limehawk/gam-multi/pkg/gam"
)

const (
	argTimeout = "timeout_seconds"
	argConfirm = "confirm"

	maxTimeoutSeconds = 24 * 60 * 60
)

// callOptions are the arguments every tool accepts besides its own.
type callOptions struct {
	timeout time.Duration
	confirm bool
}

// splitArgs removes the shared arguments from args. "confirm" is only known
// to destructive tools.
func splitArgs(args map[string]interface{}, destructive bool) (map[string]interface{}, callOptions, error) {
	var opts callOptions
	rest := make(map[string]interface{}, len(args))
	for k, v := range args {
		switch {
		case k == argTimeout:
			secs, err := positiveInt(k, v)
			if err != nil {
				return nil, opts, err
			}
			if secs > maxTimeoutSeconds {
				return nil, opts, &gam.ValidationError{Field: k, Message: fmt.Sprintf("argument %q must not exceed %d", k, maxTimeoutSeconds)}
			}
			opts.timeout = time.Duration(secs) * time.Second
		case k == argConfirm && destructive:
			b, ok := v.(bool)
			if !ok && v != nil {
				return nil, opts, &gam.ValidationError{Field: k, Message: "argument \"confirm\" must be a boolean"}
			}
			opts.confirm = b
		default:
			rest[k] = v
		}
	}
	return rest, opts, nil
}

func positiveInt(field string, v interface{}) (int, error) {
	var n float64
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		n = x
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, &gam.ValidationError{Field: field, Message: fmt.Sprintf("argument %q must be an integer", field)}
		}
		n = f
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, &gam.ValidationError{Field: field, Message: fmt.Sprintf("argument %q must be an integer", field)}
		}
		n = float64(i)
	default:
		return 0, &gam.ValidationError{Field: field, Message: fmt.Sprintf("argument %q must be an integer", field)}
	}
	if n != math.Trunc(n) || n < 0 {
		return 0, &gam.ValidationError{Field: field, Message: fmt.Sprintf("argument %q must be a non-negative integer", field)}
	}
	if n > 1<<53 {
		return 0, &gam.ValidationError{Field: field, Message: fmt.Sprintf("argument %q is too large", field)}
	}
	return int(n), nil
}

// decodeArgs fills dst (a struct with json tags) from args. Unknown keys and
// mistyped values are validation errors.
func decodeArgs(args map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return &gam.ValidationError{Message: fmt.Sprintf("cannot encode arguments: %v", err)}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return argumentError(err)
	}
	return nil
}

func argumentError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &gam.ValidationError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("argument %q must be %s", typeErr.Field, kindName(typeErr.Type)),
		}
	}
	const unknownPrefix = "json: unknown field "
	if msg := err.Error(); strings.HasPrefix(msg, unknownPrefix) {
		field, _ := strconv.Unquote(strings.TrimPrefix(msg, unknownPrefix))
		return &gam.ValidationError{Field: field, Message: fmt.Sprintf("unknown argument %q", field)}
	}
	return &gam.ValidationError{Message: fmt.Sprintf("invalid arguments: %v", err)}
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "a " + t.Kind().String()
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func enumProp(description string, values []string, def string) map[string]interface{} {
	p := stringProp(description)
	p["enum"] = values
	if def != "" {
		p["default"] = def
	}
	return p
}

func boolProp(description string, def bool) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description, "default": def}
}

// triStateProp is a boolean whose absence means "no filter", so it carries no
// default.
func triStateProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description, "minimum": 1}
}

// objectSchema wraps properties into a JSON schema object and adds the shared
// arguments.
func objectSchema(properties map[string]interface{}, required []string, destructive bool) map[string]interface{} {
	props := make(map[string]interface{}, len(properties)+2)
	for k, v := range properties {
		props[k] = v
	}
	timeout := intProp("Maximum seconds to wait for GAM (default from configuration, normally 300)")
	timeout["maximum"] = maxTimeoutSeconds
	props[argTimeout] = timeout
	if destructive {
		props[argConfirm] = boolProp("Set to true to execute. Without it the command is only previewed.", false)
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
