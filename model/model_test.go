package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnae/whynot-go/model"
)

// S1 from spec.md §8.
func TestSearchItemDecode(t *testing.T) {
	raw := `[{"thread":"abc","timestamp":1,"date_relative":"now","matched":1,"total":1,"authors":"a","subject":"s","query":[null,null],"tags":["inbox"]}]`

	var items []model.SearchItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 1)
	require.Equal(t, "abc", items[0].ThreadID)
	require.Equal(t, []string{"inbox"}, items[0].Tags)
	require.Nil(t, items[0].Query[0])
	require.Nil(t, items[0].Query[1])
}

func TestSearchItemDedupesTags(t *testing.T) {
	raw := `{"thread":"t","timestamp":1,"date_relative":"now","matched":1,"total":2,"authors":"a","subject":"s","query":["q",null],"tags":["inbox","inbox","unread"]}`
	var item model.SearchItem
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	require.Equal(t, []string{"inbox", "unread"}, item.Tags)
}

// Invariant 2 from spec.md §8: round-trip through JSON preserves equality
// field-for-field.
func TestSearchItemRoundTrip(t *testing.T) {
	q0 := "subject:hello"
	original := model.SearchItem{
		ThreadID:     "thread-1",
		Timestamp:    1700000000,
		DateRelative: "2 days ago",
		Matched:      3,
		Total:        5,
		Authors:      "Alice, Bob",
		Subject:      "Re: Hello",
		Tags:         []string{"inbox", "important"},
		Query:        [2]*string{&q0, nil},
	}

	b, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded model.SearchItem
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, original, decoded)
}

func TestBodyPartContentShapes(t *testing.T) {
	t.Run("absent content is empty", func(t *testing.T) {
		var p model.BodyPart
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"content-type":"application/octet-stream"}`), &p))
		require.Equal(t, model.ContentEmpty, p.Kind)
	})

	t.Run("string content is text", func(t *testing.T) {
		var p model.BodyPart
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"content-type":"text/plain","content":"hello"}`), &p))
		require.Equal(t, model.ContentText, p.Kind)
		require.Equal(t, "hello", p.Text)
	})

	t.Run("array content is multipart", func(t *testing.T) {
		var p model.BodyPart
		raw := `{"id":1,"content-type":"multipart/alternative","content":[
			{"id":2,"content-type":"text/plain","content":"plain"},
			{"id":3,"content-type":"text/html","content":"<p>html</p>"}
		]}`
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		require.Equal(t, model.ContentMultipart, p.Kind)
		require.Len(t, p.Parts, 2)
		require.Equal(t, "plain", p.Parts[0].Text)
	})

	t.Run("unexpected shape falls back to empty", func(t *testing.T) {
		var p model.BodyPart
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"content-type":"x","content":42}`), &p))
		require.Equal(t, model.ContentEmpty, p.Kind)
	})

	t.Run("attachment detection", func(t *testing.T) {
		attachment := model.BodyPart{Disposition: "attachment"}
		inline := model.BodyPart{Disposition: "inline"}
		plain := model.BodyPart{}
		require.True(t, attachment.IsAttachment())
		require.True(t, inline.IsAttachment())
		require.False(t, plain.IsAttachment())
	})
}

func TestHeadersUnmarshalPreservesUnknown(t *testing.T) {
	raw := `{"Subject":"Hi","From":"a@x","To":"b@x","Date":"today","Cc":"c@x","References":"<r@x>"}`
	var h model.Headers
	require.NoError(t, json.Unmarshal([]byte(raw), &h))
	require.Equal(t, "Hi", h.Subject)
	require.Nil(t, h.ReplyTo)
	require.Equal(t, "c@x", h.Additional.Get("Cc"))
	require.Equal(t, "<r@x>", h.Additional.Get("references"))
}

func TestHeadersReplyToOptional(t *testing.T) {
	raw := `{"Subject":"Hi","From":"a@x","To":"b@x","Date":"today","Reply-To":"r@x"}`
	var h model.Headers
	require.NoError(t, json.Unmarshal([]byte(raw), &h))
	require.NotNil(t, h.ReplyTo)
	require.Equal(t, "r@x", *h.ReplyTo)
}

func msg(id string) model.Message {
	return model.Message{ID: id}
}

// Invariant 3 from spec.md §8: pre-order flattening contains each message id
// exactly once.
func TestThreadFlattenPreOrder(t *testing.T) {
	thread := model.Thread{
		model.Level{
			model.Node{
				Message: msg("root"),
				Children: model.Thread{
					model.Level{
						model.Node{Message: msg("reply-1")},
						model.Node{Message: msg("reply-2")},
					},
				},
			},
		},
	}

	flat := thread.Flatten()
	ids := make([]string, len(flat))
	for i, m := range flat {
		ids[i] = m.ID
	}
	require.Equal(t, []string{"root", "reply-1", "reply-2"}, ids)
}

func TestThreadNodeAcceptsBareObjectAndPair(t *testing.T) {
	bare := `{"id":"m1","match":true,"excluded":false,"filename":["f"],"timestamp":1,"date_relative":"now","tags":[],"headers":{"Subject":"s","From":"f","To":"t","Date":"d"},"body":[]}`
	var node model.Node
	require.NoError(t, json.Unmarshal([]byte(bare), &node))
	require.Equal(t, "m1", node.Message.ID)
	require.Nil(t, node.Children)

	pair := `[` + bare + `,[]]`
	var node2 model.Node
	require.NoError(t, json.Unmarshal([]byte(pair), &node2))
	require.Equal(t, "m1", node2.Message.ID)
	require.NotNil(t, node2.Children)
}

func TestMessageDuplicateCountFromFilenames(t *testing.T) {
	raw := `{"id":"m1","match":true,"excluded":false,"filename":["/a","/b"],"timestamp":1,"date_relative":"now","tags":["x","x"],"headers":{"Subject":"s","From":"f","To":"t","Date":"d"},"body":[]}`
	var m model.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	require.Equal(t, 2, m.DuplicateCount)
	require.Equal(t, []string{"x"}, m.Tags)
}
