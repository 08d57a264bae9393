package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{})
	assert.Equal(t, "SELECT COUNT(1) FROM audit_events WHERE 1=1", query)
	assert.Empty(t, args)

	query, args = buildBaseQuery("SELECT id", Filter{Action: "worklog.approve", ActorID: "u1"})
	assert.Equal(t, "SELECT id FROM audit_events WHERE 1=1 AND action = $1 AND actor_id = $2", query)
	assert.Equal(t, []any{"worklog.approve", "u1"}, args)
}

func TestMarshalOptional(t *testing.T) {
	payload, err := marshalOptional(nil)
	assert.NoError(t, err)
	assert.Nil(t, payload)

	payload, err = marshalOptional(map[string]string{"state": "approved"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"state":"approved"}`, string(payload))
}
