package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/webvantage/chatbot-platform/internal/classifier"
	"github.com/webvantage/chatbot-platform/internal/observability/metrics"
	"github.com/webvantage/chatbot-platform/internal/users"
	"github.com/webvantage/chatbot-platform/pkg/logging"
)

var chatTracer = otel.Tracer("webvantage.internal.chat")

// TurnRequest is one inbound visitor message.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
}

// TurnResponse is what a chat turn returns to the widget.
type TurnResponse struct {
	SessionID       string              `json:"session_id"`
	Reply           string              `json:"reply"`
	BusinessType    classifier.Category `json:"business_type"`
	Services        []string            `json:"services"`
	Stage           Stage               `json:"stage"`
	ShowBookingForm bool                `json:"show_booking_form"`
}

// Service runs the classify → advance stage → compose pipeline for each
// turn. Processing is synchronous; each request is handled independently.
type Service struct {
	contexts    ContextStore
	classifier  *classifier.Classifier
	composer    *Composer
	transcripts TranscriptStore
	users       users.Store
	metrics     *metrics.ChatMetrics
	logger      *logging.Logger
}

// NewService wires the chat pipeline. Transcripts, the user store, and
// metrics are optional.
func NewService(contexts ContextStore, cls *classifier.Classifier, composer *Composer, transcripts TranscriptStore, userStore users.Store, m *metrics.ChatMetrics, logger *logging.Logger) *Service {
	if contexts == nil {
		panic("chat: context store required")
	}
	if cls == nil {
		cls = classifier.New()
	}
	if composer == nil {
		composer = NewComposer("")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		contexts:    contexts,
		classifier:  cls,
		composer:    composer,
		transcripts: transcripts,
		users:       userStore,
		metrics:     m,
		logger:      logger,
	}
}

// ProcessTurn handles one visitor message and returns the composed reply.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	start := time.Now()
	ctx, span := chatTracer.Start(ctx, "chat.process_turn")
	defer span.End()

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("chat.session_id", sessionID))

	sc, err := s.contexts.GetOrCreate(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		sc.Name = name
	}

	s.applyClassification(sc, req.Message)
	s.trackServices(sc, req.Message)
	s.advanceStage(sc, req.Message)

	reply, showBookingForm := s.composer.Compose(sc)

	if err := s.contexts.Save(ctx, sc); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.appendTranscript(ctx, sessionID, "user", req.Message)
	s.appendTranscript(ctx, sessionID, "assistant", reply)
	s.recordVisitor(ctx, sessionID, sc.Name)

	if sc.Category == classifier.CategoryProhibited {
		s.metrics.ObserveProhibited()
	}
	s.metrics.ObserveTurn(string(sc.Category), string(sc.Stage), time.Since(start).Seconds())

	s.logger.Debug("chat turn processed",
		"session_id", sessionID,
		"category", sc.Category,
		"stage", sc.Stage,
	)

	return &TurnResponse{
		SessionID:       sessionID,
		Reply:           reply,
		BusinessType:    sc.Category,
		Services:        sc.Services,
		Stage:           sc.Stage,
		ShowBookingForm: showBookingForm,
	}, nil
}

// applyClassification updates the session category. Corrections replace the
// previous category; otherwise the first confident label sticks.
func (s *Service) applyClassification(sc *SessionContext, message string) {
	label := s.classifier.Classify(message)
	correction := classifier.IsCorrection(message)
	sc.JustCorrected = false

	switch {
	case label == classifier.CategoryProhibited:
		sc.Category = label
	case correction && label != classifier.CategoryGeneral:
		if sc.Category != label && sc.Category != classifier.CategoryGeneral {
			sc.JustCorrected = true
		}
		sc.Category = label
	case sc.Category == classifier.CategoryGeneral && label != classifier.CategoryGeneral:
		sc.Category = label
	}
}

func (s *Service) trackServices(sc *SessionContext, message string) {
	text := strings.ToLower(message)
	for _, kw := range serviceKeywords {
		if strings.Contains(text, kw.phrase) {
			sc.AddService(kw.service)
		}
	}
}

// advanceStage moves the forward-only stage machine. Pricing/booking words
// jump straight to closing from any earlier stage.
func (s *Service) advanceStage(sc *SessionContext, message string) {
	if sc.Category == classifier.CategoryProhibited {
		return
	}
	text := strings.ToLower(message)

	target := sc.Stage
	for _, trigger := range closingTriggers {
		if strings.Contains(text, trigger) {
			target = StageClosing
			break
		}
	}
	if target != StageClosing {
		switch sc.Stage {
		case StageInitial:
			if sc.Category != classifier.CategoryGeneral || containsAny(text, discoveryTriggers) {
				target = StageDiscovery
			}
		case StageDiscovery:
			if len(sc.Services) > 0 || containsAny(text, discoveryTriggers) {
				target = StageRecommendation
			}
		}
	}

	if target.rank() > sc.Stage.rank() {
		sc.Stage = target
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// recordVisitor upserts the user record for this session; failures are
// logged and never fail the chat turn.
func (s *Service) recordVisitor(ctx context.Context, sessionID, name string) {
	if s.users == nil {
		return
	}
	if err := s.users.RecordVisitor(ctx, sessionID, name); err != nil {
		s.logger.Error("chat: failed to record visitor", "error", err, "session_id", sessionID)
	}
}

// appendTranscript records a turn; transcript failures are logged and never
// fail the chat turn.
func (s *Service) appendTranscript(ctx context.Context, sessionID, role, content string) {
	if s.transcripts == nil || strings.TrimSpace(content) == "" {
		return
	}
	err := s.transcripts.Append(ctx, sessionID, TranscriptMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("chat: failed to append transcript", "error", err, "session_id", sessionID, "role", role)
	}
}
