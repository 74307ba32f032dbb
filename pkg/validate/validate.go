// Package validate checks struct fields against rules declared in a
// `validate` tag. Rules are comma-separated and run in order; the first
// failing rule per field wins.
//
//	required          field must not be empty
//	nullable          if empty, skip the remaining rules
//	email             valid email address
//	alpha_dash        letters, digits, hyphens, underscores
//	numeric           digits only
//	min=N             minimum character length
//	max=N             maximum character length
//	in=a b c          value must be one of the space-separated items
//	confirmed         must equal the sibling field <Field>Confirmation
//
// Example:
//
//	type input struct {
//	    Username string `validate:"required,alpha_dash,min=3,max=30"`
//	    Email    string `validate:"nullable,email"`
//	}
//	if errs := validate.Struct(input{...}); validate.HasErrors(errs) { ... }
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates every exported field of v that carries a `validate`
// tag and returns a field name to message map. An empty map means valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		raw := fmt.Sprintf("%v", rv.Field(i).Interface())
		name := fieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && raw == "" {
			continue
		}

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" || rule == "nullable" {
				continue
			}
			if msg := apply(rule, name, field.Name, raw, rv); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

// HasErrors reports whether the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func apply(rule, name, goName, raw string, parent reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if raw == "" {
			return fmt.Sprintf("the %s field is required", name)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("the %s must be a valid email address", name)
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("the %s may only contain letters, numbers, dashes and underscores", name)
			}
		}
	case "numeric":
		for _, c := range raw {
			if !unicode.IsDigit(c) {
				return fmt.Sprintf("the %s must contain only digits", name)
			}
		}
	case "min":
		n, _ := strconv.Atoi(param)
		if len([]rune(raw)) < n {
			return fmt.Sprintf("the %s must be at least %s characters", name, param)
		}
	case "max":
		n, _ := strconv.Atoi(param)
		if len([]rune(raw)) > n {
			return fmt.Sprintf("the %s must not exceed %s characters", name, param)
		}
	case "in":
		for _, a := range strings.Fields(param) {
			if raw == a {
				return ""
			}
		}
		return fmt.Sprintf("the selected %s is invalid", name)
	case "confirmed":
		sibling := parent.FieldByName(goName + "Confirmation")
		if !sibling.IsValid() || fmt.Sprintf("%v", sibling.Interface()) != raw {
			return fmt.Sprintf("the %s confirmation does not match", name)
		}
	}
	return ""
}

func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

func hasRule(rules []string, want string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == want {
			return true
		}
	}
	return false
}
