package tldr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtldr/model"
	"wtldr/provider/testutil"
)

func TestAssembleOrdersOldestFirst(t *testing.T) {
	msgs := testutil.GroupMessages("onebot", "g1", 3)
	newestFirst := []model.StoredMessage{msgs[2], msgs[1], msgs[0]}

	prompt := Assemble("base:", "", newestFirst)

	assert.Equal(t, "base:", prompt.System)
	assert.Equal(t, "alice: message 0\nbob: message 1\nalice: message 2", prompt.Transcript)
}

func TestAssembleAppendsExtraVerbatim(t *testing.T) {
	prompt := Assemble("总结：", "重点关注 bob", testutil.GroupMessages("onebot", "g1", 1))
	assert.Equal(t, "总结：重点关注 bob", prompt.System)

	blocks := prompt.Messages()
	require.Len(t, blocks, 2)
	assert.Equal(t, model.RoleSystem, blocks[0].Role)
	assert.Equal(t, model.RoleUser, blocks[1].Role)
	assert.Equal(t, "alice: message 0", blocks[1].Content)
}

func TestTranscriptLineFlattensMarkup(t *testing.T) {
	line := TranscriptLine(model.StoredMessage{
		Username: "alice",
		Content:  `look <img src="http://x/y.png"/> at <at id="42"/>this &amp; that`,
	})
	assert.Equal(t, "alice: look [img] at [at]this & that", line)
}

func TestSummarizeRefusalWins(t *testing.T) {
	p := testutil.NewMockProvider("m")
	p.CompleteFunc = func(context.Context, []model.Message) (model.Completion, error) {
		return model.Completion{Content: "ignored", Refusal: "I won't"}, nil
	}

	result, err := Summarize(context.Background(), p, Prompt{})
	require.NoError(t, err)
	assert.True(t, result.Refused)
	assert.Equal(t, "I won't", result.Text)
}

func TestSummarizeWrapsProviderError(t *testing.T) {
	cause := errors.New("connection reset")
	p := testutil.NewMockProvider("qwen")
	p.CompleteFunc = func(context.Context, []model.Message) (model.Completion, error) {
		return model.Completion{}, cause
	}

	_, err := Summarize(context.Background(), p, Prompt{})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "qwen", genErr.Model)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, p.CallCount())
}

func TestCompose(t *testing.T) {
	recent := Compose(10, "summary", false)
	assert.Equal(t, "已为您总结最近 10 条消息", recent.Status)
	assert.Equal(t, "summary", recent.Summary)

	anchored := Compose(5, "summary", true)
	assert.Equal(t, "已为您总结从所选消息开始的 5 条消息", anchored.Status)
}

func TestGroupedReplyMarkup(t *testing.T) {
	reply := Compose(2, "a < b & <script>", false)
	assert.Equal(t,
		"<message forward><message>已为您总结最近 2 条消息</message>"+
			"<message>a &lt; b &amp; &lt;script&gt;<br/></message></message>",
		reply.Markup())
}

func TestOptions(t *testing.T) {
	assert.Error(t, Options{DefaultCount: 0, MaxCount: 10}.Validate())
	assert.Error(t, Options{DefaultCount: 10, MaxCount: 5}.Validate())
	assert.NoError(t, Options{DefaultCount: 64, MaxCount: 512}.Validate())

	all := Options{}
	assert.True(t, all.GuildEnabled("onebot", "g1"))

	some := Options{EnabledGuilds: []string{"onebot:g1", "g2"}}
	assert.True(t, some.GuildEnabled("onebot", "g1"))
	assert.False(t, some.GuildEnabled("discord", "g1"))
	assert.True(t, some.GuildEnabled("discord", "g2"))
	assert.False(t, some.GuildEnabled("onebot", "g3"))
}

func TestSelectorValidatesCriteria(t *testing.T) {
	store := newMemoryStore()
	sel := NewSelector(store)

	_, err := sel.Select(context.Background(), model.SelectionCriteria{GuildID: "g", Limit: 1})
	assert.Error(t, err)
	_, err = sel.Select(context.Background(), model.SelectionCriteria{Platform: "p", GuildID: "g"})
	assert.Error(t, err)
	assert.Zero(t, store.queryCount())
}

func TestSelectorFewerThanLimit(t *testing.T) {
	store := newMemoryStore(testutil.GroupMessages("onebot", "g1", 4)...)

	got, err := NewSelector(store).Select(context.Background(), model.SelectionCriteria{
		Platform: "onebot", GuildID: "g1", Limit: 50,
	})
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, "m003", got[0].ID)
	assert.Equal(t, 1, store.queryCount())
}

func TestInvocationWithoutCount(t *testing.T) {
	req := &Request{}
	_, ok := req.Count()
	assert.False(t, ok)

	req.RequestedCount = CountOf(7)
	n, ok := req.Count()
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	assert.NoError(t, req.Notify(context.Background(), "dropped"))
}

func TestGenerationErrorMessage(t *testing.T) {
	err := &GenerationError{Model: "m", Err: errors.New("boom")}
	assert.True(t, strings.Contains(err.Error(), "boom"))
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}
