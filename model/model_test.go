package model

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	platform.DB = db
	InstallDB()
}

func TestTitleFromMessage(t *testing.T) {
	assert.Equal(t, "Hello", TitleFromMessage("Hello"))
	assert.Equal(t, strings.Repeat("x", 50), TitleFromMessage(strings.Repeat("x", 50)))
	assert.Equal(t, strings.Repeat("x", 50)+"...", TitleFromMessage(strings.Repeat("x", 60)))
}

func TestConversationDefaultTitle(t *testing.T) {
	setupTestDB(t)
	conversation := &Conversation{Owner: GuestOwner("g1")}
	require.NoError(t, CreateConversation(conversation))
	assert.Equal(t, DefaultConversationTitle, conversation.Title)
	assert.NotEmpty(t, conversation.ID)
}

func TestConversationOwnerScoping(t *testing.T) {
	setupTestDB(t)
	mine := &Conversation{Owner: GuestOwner("g1"), Title: "mine"}
	require.NoError(t, CreateConversation(mine))

	_, err := GetConversation(mine.ID, GuestOwner("g2"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = GetConversation(mine.ID, UserOwner(1))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := GetConversation(mine.ID, GuestOwner("g1"))
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestMessageRefreshesConversation(t *testing.T) {
	setupTestDB(t)
	owner := GuestOwner("g1")

	older := &Conversation{Owner: owner, Title: "older"}
	require.NoError(t, CreateConversation(older))
	newer := &Conversation{Owner: owner, Title: "newer"}
	require.NoError(t, CreateConversation(newer))

	// appending to the older conversation bubbles it to the top
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, CreateMessage(&Message{ConversationID: older.ID, Role: RoleUser, Content: "ping"}))

	list, err := GetConversationList(owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "older", list[0].Title)
	assert.Equal(t, "newer", list[1].Title)
}

func TestMessageOrdering(t *testing.T) {
	setupTestDB(t)
	conversation := &Conversation{Owner: GuestOwner("g1")}
	require.NoError(t, CreateConversation(conversation))

	for i := 0; i < 3; i++ {
		require.NoError(t, CreateMessage(&Message{
			ConversationID: conversation.ID,
			Role:           RoleUser,
			Content:        fmt.Sprintf("m%d", i),
		}))
		time.Sleep(5 * time.Millisecond)
	}

	messages, err := GetMessageList(conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m0", messages[0].Content)
	assert.Equal(t, "m2", messages[2].Content)

	last, err := GetLastMessage(conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, "m2", last.Content)
}

func TestDeleteConversationRemovesMessages(t *testing.T) {
	setupTestDB(t)
	owner := GuestOwner("g1")
	conversation := &Conversation{Owner: owner}
	require.NoError(t, CreateConversation(conversation))
	require.NoError(t, CreateMessage(&Message{ConversationID: conversation.ID, Role: RoleUser, Content: "hi"}))

	require.NoError(t, DeleteConversation(conversation.ID, owner))

	count, err := CountMessages(conversation.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteConversationForeignOwner(t *testing.T) {
	setupTestDB(t)
	conversation := &Conversation{Owner: GuestOwner("g1")}
	require.NoError(t, CreateConversation(conversation))

	err := DeleteConversation(conversation.ID, GuestOwner("g2"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUsageStats(t *testing.T) {
	setupTestDB(t)
	owner := GuestOwner("g1")

	require.NoError(t, CreateUsageRecord(&UsageRecord{Owner: owner, Endpoint: "chat", TokensUsed: 10, ResponseTimeMS: 100, StatusCode: 200}))
	require.NoError(t, CreateUsageRecord(&UsageRecord{Owner: owner, Endpoint: "chat", TokensUsed: 0, ResponseTimeMS: 51, StatusCode: 500}))
	require.NoError(t, CreateUsageRecord(&UsageRecord{Owner: GuestOwner("other"), Endpoint: "chat", TokensUsed: 99, ResponseTimeMS: 10, StatusCode: 200}))

	stats, err := GetUsageStats(owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(10), stats.TotalTokensUsed)
	assert.InDelta(t, 75.5, stats.AverageResponseTimeMS, 0.001)
}

func TestUsageStatsEmpty(t *testing.T) {
	setupTestDB(t)
	stats, err := GetUsageStats(GuestOwner("nobody"))
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRequests)
	assert.Zero(t, stats.TotalTokensUsed)
	assert.Zero(t, stats.AverageResponseTimeMS)
}

func TestDeleteGuestConversationsBefore(t *testing.T) {
	setupTestDB(t)

	stale := &Conversation{Owner: GuestOwner("g1"), Title: "stale"}
	require.NoError(t, CreateConversation(stale))
	require.NoError(t, platform.DB.Model(stale).Update("updated_at", time.Now().Add(-40*24*time.Hour)).Error)

	fresh := &Conversation{Owner: GuestOwner("g2"), Title: "fresh"}
	require.NoError(t, CreateConversation(fresh))

	userOwned := &Conversation{Owner: UserOwner(1), Title: "user"}
	require.NoError(t, CreateConversation(userOwned))
	require.NoError(t, platform.DB.Model(userOwned).Update("updated_at", time.Now().Add(-40*24*time.Hour)).Error)

	removed, err := DeleteGuestConversationsBefore(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = GetConversation(stale.ID, GuestOwner("g1"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = GetConversation(fresh.ID, GuestOwner("g2"))
	assert.NoError(t, err)
	_, err = GetConversation(userOwned.ID, UserOwner(1))
	assert.NoError(t, err)
}
