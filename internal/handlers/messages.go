package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/middleware"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/observability"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/presence"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/repositories"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/telemetry"
)

// MessagesHandler serves the authenticated chat/contact/message endpoint,
// dispatching on the action query parameter (GET) or body field (POST).
type MessagesHandler struct {
	userRepo    repositories.UserRepository
	contactRepo repositories.ContactRepository
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	presence    *presence.Tracker
	emitter     *telemetry.EventEmitter
}

// NewMessagesHandler builds a MessagesHandler.
func NewMessagesHandler(
	userRepo repositories.UserRepository,
	contactRepo repositories.ContactRepository,
	chatRepo repositories.ChatRepository,
	messageRepo repositories.MessageRepository,
	tracker *presence.Tracker,
	emitter *telemetry.EventEmitter,
) *MessagesHandler {
	return &MessagesHandler{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		presence:    tracker,
		emitter:     emitter,
	}
}

type messagesRequest struct {
	Action    string `json:"action"`
	ChatID    int    `json:"chat_id"`
	Text      string `json:"text"`
	Username  string `json:"username"`
	ContactID int    `json:"contact_id"`
}

// Get handles the read actions: chats, contacts, messages, search.
func (h *MessagesHandler) Get(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	switch c.Query("action") {
	case "chats":
		h.listChats(c, userID)
	case "contacts":
		h.listContacts(c, userID)
	case "messages":
		h.listMessages(c, userID)
	case "search":
		h.search(c, userID)
	default:
		respondError(c, apperrors.ErrUnknownAction)
	}
}

// Post handles the mutating actions: send, add_contact, create_chat.
func (h *MessagesHandler) Post(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)

	var req messagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArg("invalid request body"))
		return
	}

	switch req.Action {
	case "send":
		h.send(c, userID, req)
	case "add_contact":
		h.addContact(c, userID, req)
	case "create_chat":
		h.createChat(c, userID, req)
	default:
		respondError(c, apperrors.ErrUnknownAction)
	}
}

func (h *MessagesHandler) listChats(c *gin.Context, userID int) {
	records, err := h.chatRepo.ListSummaries(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	chats := make([]models.ChatSummary, 0, len(records))
	for _, rec := range records {
		summary := models.ChatSummary{
			ID: rec.ChatID,
			User: models.ChatPeer{
				ID:       rec.PeerID,
				Username: rec.PeerUsername,
				Name:     rec.PeerName,
				Avatar:   rec.PeerAvatar.String,
				Online:   h.presence.Online(rec.PeerLastSeen),
			},
			LastMessage: rec.LastMessage.String,
			Unread:      rec.Unread,
		}
		if rec.LastTime.Valid {
			summary.Time = rec.LastTime.Time.Format(models.TimeFormat)
		}
		chats = append(chats, summary)
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *MessagesHandler) listContacts(c *gin.Context, userID int) {
	users, err := h.contactRepo.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	contacts := make([]models.ContactView, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, models.ContactView{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.DisplayName,
			Avatar:   u.AvatarURL.String,
			Bio:      u.Bio.String,
			Online:   h.presence.Online(u.LastSeen),
		})
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (h *MessagesHandler) listMessages(c *gin.Context, userID int) {
	raw := c.Query("chat_id")
	if raw == "" {
		respondError(c, apperrors.ErrChatIDRequired)
		return
	}
	chatID, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, apperrors.InvalidArg("invalid chat_id"))
		return
	}

	member, err := h.chatRepo.IsMember(c.Request.Context(), chatID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !member {
		respondError(c, apperrors.ErrNotChatMember)
		return
	}

	msgs, err := h.messageRepo.List(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, m.View(userID))
	}

	c.JSON(http.StatusOK, gin.H{"messages": views})
}

func (h *MessagesHandler) search(c *gin.Context, userID int) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"users": []models.UserSearchResult{}})
		return
	}

	hits, err := h.userRepo.Search(c.Request.Context(), userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]models.UserSearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.UserSearchResult{
			ID:        hit.ID,
			Username:  hit.Username,
			Name:      hit.DisplayName,
			Avatar:    hit.AvatarURL.String,
			Bio:       hit.Bio.String,
			IsContact: hit.IsContact,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": results})
}

func (h *MessagesHandler) send(c *gin.Context, userID int, req messagesRequest) {
	if req.ChatID == 0 {
		respondError(c, apperrors.ErrChatIDRequired)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondError(c, apperrors.ErrEmptyMessage)
		return
	}

	chat, err := h.chatRepo.Get(c.Request.Context(), req.ChatID)
	if err != nil {
		respondError(c, err)
		return
	}
	if chat.User1ID != userID && chat.User2ID != userID {
		respondError(c, apperrors.ErrNotChatMember)
		return
	}

	msg, err := h.messageRepo.Create(c.Request.Context(), chat.ID, userID, text)
	if err != nil {
		respondError(c, err)
		return
	}

	observability.IncMessageSent()
	h.emitter.Emit(c.Request.Context(), "message.sent", requestIDFromContext(c), userID, gin.H{"chat_id": chat.ID})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg.View(userID),
	})
}

func (h *MessagesHandler) addContact(c *gin.Context, userID int, req messagesRequest) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		respondError(c, apperrors.ErrUsernameReq)
		return
	}

	contact, err := h.userRepo.GetByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	if contact.ID == userID {
		respondError(c, apperrors.ErrSelfContact)
		return
	}

	if err := h.contactRepo.Add(c.Request.Context(), userID, contact.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MessagesHandler) createChat(c *gin.Context, userID int, req messagesRequest) {
	if req.ContactID == 0 {
		respondError(c, apperrors.ErrContactIDReq)
		return
	}

	chat, err := h.chatRepo.CreateOrGet(c.Request.Context(), userID, req.ContactID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "chat_id": chat.ID})
}
