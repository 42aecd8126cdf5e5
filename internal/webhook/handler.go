// Package webhook is the chat-facing boundary: it decodes inbound webhook
// events, drives the router, resolver, builder, and preview store, and
// converts every component failure into a user-visible text reply. Nothing
// escapes this layer as a transport error; the endpoint always answers 200.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okonomi-dev/kiroku/internal/compose"
	"github.com/okonomi-dev/kiroku/internal/kv"
	"github.com/okonomi-dev/kiroku/internal/line"
	"github.com/okonomi-dev/kiroku/internal/nearby"
	"github.com/okonomi-dev/kiroku/internal/notion"
	"github.com/okonomi-dev/kiroku/internal/preview"
	"github.com/okonomi-dev/kiroku/internal/router"
	"github.com/okonomi-dev/kiroku/pkg/types"
)

const (
	// locationPrefix namespaces cached sender locations in the store.
	locationPrefix = "loc:"

	// locationTTL bounds a cached location in the store.
	locationTTL = 2 * time.Hour

	// locationMaxAge is the staleness cutoff applied on read. An entry
	// older than this is treated as absent even if the store still has it.
	locationMaxAge = 120 * time.Minute

	// savePrefix tags confirmation postbacks with their preview token.
	savePrefix = "save:"
)

// User-facing reply texts. Component errors are logged with full detail and
// rendered to the user only through these.
const (
	textSchemaUsage    = "使い方: schema: アニメ一覧"
	textNeedLocation   = "近くのおすすめを出すには位置情報を送ってね！"
	textPreviewExpired = "保存期限が切れました。もう一度送ってね"
	textSaveFailed     = "Notionへの保存に失敗したみたい。DBの接続・ID・列名/型を確認してもう一度！"
)

// Resolver maps destination references to live handles.
type Resolver interface {
	Resolve(ctx context.Context, ref types.DestinationRef) (*types.DestinationHandle, error)
}

// PageCreator commits a record to a destination.
type PageCreator interface {
	CreatePage(ctx context.Context, databaseID string, props notion.WireProperties) (string, error)
}

// cachedLocation is the stored shape of a sender's last shared location.
type cachedLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CachedAt  time.Time `json:"cached_at"`
}

// Handler serves the webhook endpoint.
type Handler struct {
	resolver Resolver
	pages    PageCreator
	builder  *compose.Builder
	previews *preview.Store
	replier  line.Replier
	store    kv.Store
	log      *zap.Logger
	now      func() time.Time
}

// New creates a Handler over the given collaborators.
func New(resolver Resolver, pages PageCreator, builder *compose.Builder, previews *preview.Store, replier line.Replier, store kv.Store, log *zap.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		pages:    pages,
		builder:  builder,
		previews: previews,
		replier:  replier,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Routes builds the endpoint mux. Besides the webhook itself, /cron and
// every unknown path answer 200 "ok" so upstream health checks and keepalive
// pings never see an error.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /line-webhook", h.handleWebhook)
	mux.HandleFunc("/", h.handleOK)
	return mux
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var body line.WebhookBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.log.Warn("webhook body decode failed", zap.Error(err))
		h.respondOK(w)
		return
	}

	if len(body.Events) > 0 {
		h.dispatch(r.Context(), body.Events[0])
	}
	h.respondOK(w)
}

func (h *Handler) handleOK(w http.ResponseWriter, _ *http.Request) {
	h.respondOK(w)
}

func (h *Handler) respondOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		h.log.Debug("response write failed", zap.Error(err))
	}
}

func (h *Handler) dispatch(ctx context.Context, ev line.Event) {
	switch {
	case ev.Type == "message" && ev.Message != nil && ev.Message.Type == "location":
		h.handleLocation(ctx, ev)
	case ev.Type == "message" && ev.Message != nil && ev.Message.Type == "text":
		h.handleText(ctx, ev)
	case ev.Type == "postback" && ev.Postback != nil && strings.HasPrefix(ev.Postback.Data, savePrefix):
		h.handleSave(ctx, ev, strings.TrimPrefix(ev.Postback.Data, savePrefix))
	}
}

// handleLocation caches the sender's coordinates and immediately replies
// with the recommendation carousel.
func (h *Handler) handleLocation(ctx context.Context, ev line.Event) {
	loc := cachedLocation{
		Latitude:  ev.Message.Latitude,
		Longitude: ev.Message.Longitude,
		CachedAt:  h.now(),
	}

	data, err := json.Marshal(loc)
	if err == nil {
		err = h.store.Put(ctx, locationPrefix+ev.SenderID(), data, locationTTL)
	}
	if err != nil {
		h.log.Warn("location cache write failed",
			zap.String("sender", ev.SenderID()), zap.Error(err))
	}

	places := nearby.Search(loc.Latitude, loc.Longitude, "ランチ")
	h.replyFlex(ctx, ev.ReplyToken, "おすすめ", line.LunchCarousel(places))
}

func (h *Handler) handleText(ctx context.Context, ev line.Event) {
	text := ev.Message.Text
	loc, hasLocation := h.recentLocation(ctx, ev.SenderID())

	decision := router.Classify(text, hasLocation)
	switch decision.Route {
	case router.RouteNearby:
		if decision.NeedsLocation {
			if err := h.replier.ReplyLocationPrompt(ctx, ev.ReplyToken, textNeedLocation); err != nil {
				h.log.Warn("location prompt failed", zap.Error(err))
			}
			return
		}
		places := nearby.Search(loc.Latitude, loc.Longitude, text)
		h.replyFlex(ctx, ev.ReplyToken, "おすすめ", line.LunchCarousel(places))

	case router.RouteSchema:
		h.handleSchema(ctx, ev, decision.Name)

	case router.RouteFreeTextSave:
		h.stagePreview(ctx, ev, types.NameRef(decision.Name), decision.Content)

	case router.RouteDefaultSave:
		h.stagePreview(ctx, ev, types.KindRef(decision.Kind), decision.Content)
	}
}

// handleSchema resolves the named destination and replies with its column
// listing.
func (h *Handler) handleSchema(ctx context.Context, ev line.Event, name string) {
	if name == "" {
		h.replyText(ctx, ev.ReplyToken, textSchemaUsage)
		return
	}

	handle, err := h.resolver.Resolve(ctx, types.NameRef(name))
	if err != nil {
		h.log.Warn("schema lookup failed", zap.String("name", name), zap.Error(err))
		h.replyText(ctx, ev.ReplyToken,
			fmt.Sprintf("DBを見つけられない/取得できないみたい。\n%q が Integration に接続されているか、名前を確認してね。", name))
		return
	}

	h.replyText(ctx, ev.ReplyToken, FormatSchemaList(handle))
}

// stagePreview resolves the destination, builds the candidate properties,
// stages the save request, and replies with the confirmable preview card.
func (h *Handler) stagePreview(ctx context.Context, ev line.Event, ref types.DestinationRef, content string) {
	handle, err := h.resolver.Resolve(ctx, ref)
	if err != nil {
		h.log.Warn("preview resolve failed",
			zap.String("target", ref.Label()), zap.Error(err))
		h.replyText(ctx, ev.ReplyToken, previewErrorText(ref))
		return
	}

	var props types.PropertySet
	if ref.ByName() {
		props = h.builder.ForFreeText(content, handle)
	} else {
		props = h.builder.ForKind(ref.Kind, content, handle)
	}

	req := types.SaveRequest{Target: ref, Properties: props}
	token, err := h.previews.Stage(ctx, req)
	if err != nil {
		h.log.Warn("preview stage failed", zap.Error(err))
		h.replyText(ctx, ev.ReplyToken, previewErrorText(ref))
		return
	}

	h.replyFlex(ctx, ev.ReplyToken, "プレビュー", line.PreviewBubble(req, token))
}

// handleSave consumes the staged request, re-resolves its destination
// against the live schema, serializes, and commits.
func (h *Handler) handleSave(ctx context.Context, ev line.Event, token string) {
	req, err := h.previews.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			h.replyText(ctx, ev.ReplyToken, textPreviewExpired)
			return
		}
		h.log.Warn("preview consume failed", zap.Error(err))
		h.replyText(ctx, ev.ReplyToken, textSaveFailed)
		return
	}

	handle, err := h.resolver.Resolve(ctx, req.Target)
	if err != nil {
		h.log.Warn("commit resolve failed",
			zap.String("target", req.Target.Label()), zap.Error(err))
		h.replyText(ctx, ev.ReplyToken, textSaveFailed)
		return
	}

	wire := notion.EncodeProperties(req.Properties, handle.TitleColumn, handle.Schema, h.log)
	url, err := h.pages.CreatePage(ctx, handle.ID, wire)
	if err != nil {
		h.log.Warn("page create failed",
			zap.String("database", handle.ID), zap.Error(err))
		h.replyText(ctx, ev.ReplyToken, textSaveFailed)
		return
	}

	h.replyText(ctx, ev.ReplyToken, "保存したよ！\n"+url)
}

// recentLocation reads the sender's cached location, treating entries older
// than the staleness cutoff as absent.
func (h *Handler) recentLocation(ctx context.Context, sender string) (cachedLocation, bool) {
	data, ok, err := h.store.Get(ctx, locationPrefix+sender)
	if err != nil {
		h.log.Warn("location cache read failed",
			zap.String("sender", sender), zap.Error(err))
		return cachedLocation{}, false
	}
	if !ok {
		return cachedLocation{}, false
	}

	var loc cachedLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		h.log.Warn("location cache entry corrupt",
			zap.String("sender", sender), zap.Error(err))
		return cachedLocation{}, false
	}
	if h.now().Sub(loc.CachedAt) > locationMaxAge {
		return cachedLocation{}, false
	}
	return loc, true
}

// previewErrorText renders a resolution or staging failure for the user.
// Symbolic kinds point at configuration; free-text names point at the
// destination's name and sharing.
func previewErrorText(ref types.DestinationRef) string {
	if ref.ByName() {
		return "ごめん、そのDBが見つからないか接続されてないみたい：" + ref.Name
	}
	return fmt.Sprintf("保存先DB (%s) の設定が見つからないか、権限エラーかも。", ref.Kind)
}

func (h *Handler) replyText(ctx context.Context, replyToken, text string) {
	if err := h.replier.ReplyText(ctx, replyToken, text); err != nil {
		h.log.Warn("text reply failed", zap.Error(err))
	}
}

func (h *Handler) replyFlex(ctx context.Context, replyToken, altText string, contents line.Payload) {
	if err := h.replier.ReplyFlex(ctx, replyToken, altText, contents); err != nil {
		h.log.Warn("flex reply failed", zap.Error(err))
	}
}
