package fqb_test

import (
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photosBody = `{
	"id": "4",
	"name": "Mark",
	"verified": true,
	"friend_count": 42,
	"location": {"id": "108", "name": "Palo Alto"},
	"photos": {
		"data": [
			{"id": "p1", "source": "https://example.com/1.jpg"},
			{"id": "p2", "source": "https://example.com/2.jpg"}
		],
		"paging": {
			"cursors": {"before": "QVFI", "after": "QVFJ"},
			"next": "https://graph.facebook.com/4/photos?after=QVFJ"
		}
	}
}`

func TestNewResponse(t *testing.T) {
	t.Parallel()

	response, err := fqb.NewResponse([]byte(photosBody))
	require.NoError(t, err)

	assert.Equal(t, []string{"friend_count", "id", "location", "name", "photos", "verified"}, response.Keys())
	assert.Equal(t, "4", response.GetString("id"))
	assert.Equal(t, "42", response.GetString("friend_count"))
	assert.Equal(t, "true", response.GetString("verified"))
	assert.Empty(t, response.GetString("missing"))
	assert.JSONEq(t, `{"id":"108","name":"Palo Alto"}`, response.GetString("location"))

	count, ok := response.GetInt("friend_count")
	assert.True(t, ok)
	assert.Equal(t, 42, count)

	id, ok := response.GetInt("id")
	assert.True(t, ok)
	assert.Equal(t, 4, id)

	_, ok = response.GetInt("name")
	assert.False(t, ok)

	verified, ok := response.GetBool("verified")
	assert.True(t, ok)
	assert.True(t, verified)

	value, ok := response.Get("friend_count")
	assert.True(t, ok)
	assert.Equal(t, json.Number("42"), value)

	location := response.GetResponse("location")
	require.NotNil(t, location)
	assert.Equal(t, "Palo Alto", location.GetString("name"))
	assert.Nil(t, response.GetResponse("name"))
}

func TestResponse_DataAndPaging(t *testing.T) {
	t.Parallel()

	response, err := fqb.NewResponse([]byte(photosBody))
	require.NoError(t, err)

	photos := response.GetResponse("photos")
	require.NotNil(t, photos)

	data := photos.Data()
	require.Len(t, data, 2)
	assert.Equal(t, "p1", data[0].GetString("id"))
	assert.Equal(t, "https://example.com/2.jpg", data[1].GetString("source"))

	paging := photos.Paging()
	require.NotNil(t, paging)
	assert.Equal(t, "QVFI", paging.Before)
	assert.Equal(t, "QVFJ", paging.After)
	assert.Equal(t, "https://graph.facebook.com/4/photos?after=QVFJ", paging.Next)
	assert.Empty(t, paging.Previous)

	assert.Nil(t, response.Data())
	assert.Nil(t, response.Paging())
	assert.Nil(t, response.GetResponse("albums").Data())
}

func TestResponse_Scalars(t *testing.T) {
	t.Parallel()

	response, err := fqb.NewResponse([]byte("true"))
	require.NoError(t, err)
	assert.Equal(t, true, response.Value())
	assert.Nil(t, response.Map())
	assert.Empty(t, response.Keys())

	empty, err := fqb.NewResponse(nil)
	require.NoError(t, err)
	assert.Nil(t, empty.Value())
	assert.Empty(t, empty.GetString("id"))
}

func TestResponse_MapIsCopy(t *testing.T) {
	t.Parallel()

	body := []byte(`{"id":"1"}`)

	response, err := fqb.NewResponse(body)
	require.NoError(t, err)
	assert.Equal(t, body, response.Raw())

	copied := response.Map()
	copied["id"] = "2"

	assert.Equal(t, "1", response.GetString("id"))
}

func TestNewResponse_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := fqb.NewResponse([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing graph response")
}

func TestResponse_NilReceiver(t *testing.T) {
	t.Parallel()

	var response *fqb.Response

	value, ok := response.Get("id")
	assert.Nil(t, value)
	assert.False(t, ok)

	_, ok = response.GetInt("count")
	assert.False(t, ok)

	_, ok = response.GetBool("published")
	assert.False(t, ok)

	assert.Empty(t, response.GetString("id"))
	assert.Nil(t, response.GetResponse("paging"))
	assert.Nil(t, response.Paging())
	assert.Nil(t, response.Data())
	assert.Nil(t, response.Map())
	assert.Empty(t, response.Keys())
	assert.Nil(t, response.Raw())
	assert.Nil(t, response.Value())

	graphErr := fqb.NewError(&fqb.TransportFailure{Code: 1, Message: "An unknown error occurred"})
	assert.Nil(t, graphErr.Response())
	assert.Empty(t, graphErr.Response().GetString("error"))
	assert.Empty(t, graphErr.Response().GetResponse("error").GetString("message"))
}
