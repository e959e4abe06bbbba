// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// maxJSONBody caps JSON request bodies. Post content is the largest
// field; 1 MB of markdown is far beyond any real post.
const maxJSONBody = 1 << 20

var validate = newValidator()

// newValidator builds the shared validator instance. Field names in
// error messages use the json tag, not the Go field name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// postRequest is the JSON body for creating or updating a post.
type postRequest struct {
	Title               string     `json:"title" validate:"required,max=255"`
	Slug                *string    `json:"slug" validate:"omitempty,max=255"`
	Content             *string    `json:"content"`
	Status              string     `json:"status" validate:"required,oneof=draft scheduled published"`
	PublishedAt         *time.Time `json:"published_at"`
	CategoryID          *int64     `json:"category_id"`
	Tags                []int64    `json:"tags"`
	FeaturedMediaID     *int64     `json:"featured_media_id"`
	RemoveFeaturedMedia bool       `json:"remove_featured_media"`
}

// commentRequest is the JSON body for a public comment submission.
type commentRequest struct {
	AuthorName  string `json:"author_name" validate:"required,max=120"`
	AuthorEmail string `json:"author_email" validate:"omitempty,email,max=254"`
	Content     string `json:"content" validate:"required,max=5000"`
	ParentID    *int64 `json:"parent_id"`
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

// validationMessages turns validator errors into the field → messages
// map used by 422 responses.
func validationMessages(err error) map[string][]string {
	out := make(map[string][]string)

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = []string{"The request body is invalid."}
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("The %s field is required.", field)
		case "max":
			msg = fmt.Sprintf("The %s field may not be greater than %s characters.", field, fe.Param())
		case "oneof":
			msg = fmt.Sprintf("The %s field must be one of: %s.", field, strings.Join(strings.Fields(fe.Param()), ", "))
		case "email":
			msg = fmt.Sprintf("The %s field must be a valid email address.", field)
		default:
			msg = fmt.Sprintf("The %s field is invalid.", field)
		}
		out[field] = append(out[field], msg)
	}
	return out
}
