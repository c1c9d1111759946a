package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestObjectIDRule(t *testing.T) {
	type query struct {
		UserID string `validate:"omitempty,objectid"`
	}
	v := NewValidator()

	assert.NoError(t, v.Struct(query{}))
	assert.NoError(t, v.Struct(query{UserID: primitive.NewObjectID().Hex()}))
	assert.Error(t, v.Struct(query{UserID: "abc"}))
	assert.Error(t, v.Struct(query{UserID: "zzzzzzzzzzzzzzzzzzzzzzzz"}))
}

func TestStringRules(t *testing.T) {
	type input struct {
		Username string `validate:"username"`
		Password string `validate:"strong_password"`
		Title    string `validate:"notblank,no_xss"`
	}
	v := NewValidator()

	assert.NoError(t, v.Struct(input{Username: "alice_01", Password: "secret123", Title: "Hello"}))
	assert.Error(t, v.Struct(input{Username: "Alice", Password: "secret123", Title: "Hello"}))
	assert.Error(t, v.Struct(input{Username: "alice", Password: "password", Title: "Hello"}))
	assert.Error(t, v.Struct(input{Username: "alice", Password: "secret123", Title: "   "}))
	assert.Error(t, v.Struct(input{Username: "alice", Password: "secret123", Title: "<script>x</script>"}))
}
