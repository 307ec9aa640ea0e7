package binding

import (
	"context"
	"net/url"
	"testing"

	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/rule"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `
openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name, contact]
              properties:
                name:
                  type: string
                  minLength: 2
                  maxLength: 20
                  pattern: "^[A-Za-z]+$"
                contact:
                  type: string
                  format: email
                age:
                  type: integer
                  minimum: 0
                  maximum: 40
                weight:
                  type: number
                  minimum: 0.5
                kind:
                  type: string
                  enum: [cat, dog]
                id:
                  type: string
                  format: uuid
                tags:
                  type: array
                  maxItems: 3
                  items:
                    type: string
      responses:
        "201":
          description: created
`

func TestFromOpenAPI(t *testing.T) {
	decl, err := FromOpenAPI(context.Background(), []byte(petstore), "createPet")
	require.NoError(t, err)
	assert.Equal(t, "createPet", decl.Name)

	want := []FieldDeclaration{
		{Name: "age", Native: constraint.NativeAttributes{
			Type: "number", Min: "0", Max: "40",
		}},
		{Name: "contact", Native: constraint.NativeAttributes{
			Type: "email", Required: true,
		}},
		{Name: "id", Constraints: []constraint.Descriptor{
			{Name: "type", Requirements: "uuid"},
		}},
		{Name: "kind", Constraints: []constraint.Descriptor{
			{Name: "pattern", Requirements: "cat|dog"},
		}},
		{Name: "name", Native: constraint.NativeAttributes{
			Required: true, MinLength: "2", MaxLength: "20",
		}, Constraints: []constraint.Descriptor{
			{Name: "pattern", Requirements: "/^[A-Za-z]+$/"},
		}},
		{Name: "tags", Multiple: true, Constraints: []constraint.Descriptor{
			{Name: "maxcheck", Requirements: 3},
		}},
		{Name: "weight", Native: constraint.NativeAttributes{
			Type: "number", Step: "any", Min: "0.5",
		}},
	}
	if diff := cmp.Diff(want, decl.Fields); diff != "" {
		t.Errorf("FromOpenAPI() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_BuildAndValidate(t *testing.T) {
	decl, err := FromOpenAPI(context.Background(), []byte(petstore), "createPet")
	require.NoError(t, err)

	sub := FromValues(url.Values{
		"name":    {"Rex"},
		"contact": {"owner@example.com"},
		"age":     {"41"},
		"kind":    {"bird"},
		"tags":    {"a", "b", "c", "d"},
	})
	frm, err := Build(decl, rule.NewRegistry(), sub)
	require.NoError(t, err)

	res, err := frm.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "kind", "tags"}, failing(res))
}

func TestFromOpenAPI_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := FromOpenAPI(ctx, nil, "x")
	assert.Error(t, err)

	_, err = FromOpenAPI(ctx, []byte("not: [valid"), "x")
	assert.Error(t, err)

	_, err = FromOpenAPI(ctx, []byte(petstore), "deletePet")
	assert.ErrorIs(t, err, ErrOperationNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = FromOpenAPI(cancelled, []byte(petstore), "createPet")
	assert.ErrorIs(t, err, context.Canceled)
}
