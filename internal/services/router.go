package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
	"github.com/Ananth-NQI/medeasy-backend/internal/storage"
	"github.com/Ananth-NQI/medeasy-backend/internal/utils"
)

// Intent is a classified category of user input
type Intent int

const (
	IntentDefault Intent = iota
	IntentWelcome
	IntentStartOrdering
	IntentPrescriptionUpload
	IntentTalkToPharmacist
)

var intentNames = map[string]Intent{
	"welcome":                 IntentWelcome,
	"default welcome intent":  IntentWelcome,
	"start-ordering":          IntentStartOrdering,
	"start.ordering":          IntentStartOrdering,
	"prescription-upload":     IntentPrescriptionUpload,
	"prescription.upload":     IntentPrescriptionUpload,
	"talk-to-pharmacist":      IntentTalkToPharmacist,
	"talk.to.pharmacist":      IntentTalkToPharmacist,
	"default":                 IntentDefault,
	"default fallback intent": IntentDefault,
}

// ParseIntent maps an intent name to an Intent; unknown names are the default intent
func ParseIntent(name string) Intent {
	if intent, ok := intentNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return intent
	}
	return IntentDefault
}

func (i Intent) String() string {
	switch i {
	case IntentWelcome:
		return "welcome"
	case IntentStartOrdering:
		return "start-ordering"
	case IntentPrescriptionUpload:
		return "prescription-upload"
	case IntentTalkToPharmacist:
		return "talk-to-pharmacist"
	default:
		return "default"
	}
}

// HandoverWriter records that a conversation needs a human
type HandoverWriter interface {
	UpsertHandoverFlag(ctx context.Context, flag *models.HandoverFlag) error
}

// MessageLogger appends to the conversation log without blocking the turn
type MessageLogger interface {
	Record(sessionKey string, sender models.Sender, text string)
}

// RouterDeps are the collaborators of a Router
type RouterDeps struct {
	Flow       *CollectionFlow
	Policy     *EscalationPolicy
	Handovers  HandoverWriter
	Uploads    storage.UploadTargetProvider
	Completion *CompletionFallback
	Messages   MessageLogger
	Notifier   HandoverNotifier // optional
}

// Router dispatches one conversational turn by intent
type Router struct {
	RouterDeps
}

// NewRouter creates an intent router
func NewRouter(deps RouterDeps) *Router {
	return &Router{RouterDeps: deps}
}

// Route handles one turn and always produces a reply
func (r *Router) Route(ctx context.Context, intent Intent, sessionKey, utterance string) Reply {
	var reply Reply

	switch intent {
	case IntentWelcome:
		reply = NewReply(WelcomeText).WithSuggestions(WelcomeSuggestions...)
	case IntentStartOrdering:
		reply = NewReply(r.Flow.Start(sessionKey))
	case IntentPrescriptionUpload:
		reply = r.prescriptionUpload(ctx, sessionKey)
	case IntentTalkToPharmacist:
		reply = r.handover(ctx, sessionKey)
	case IntentDefault:
		r.record(sessionKey, models.SenderUser, utterance)
		reply = r.fallback(ctx, sessionKey, utterance)
	default:
		// ParseIntent never yields these; a caller built one by hand
		log.Printf("⚠️ Unknown intent %d for %s", int(intent), sessionKey)
		reply = NewReply(CompletionFailed)
	}

	r.record(sessionKey, models.SenderBot, reply.Text())
	return reply
}

// fallback: an active collection wins, then escalation, then free chat
func (r *Router) fallback(ctx context.Context, sessionKey, utterance string) Reply {
	if text, ok := r.Flow.Continue(ctx, sessionKey, utterance); ok {
		return NewReply(text)
	}

	if category := r.Policy.Classify(utterance); category != CategoryNone {
		log.Printf("🚨 Escalating %s (%s)", sessionKey, category)
		return r.handover(ctx, sessionKey)
	}

	return NewReply(r.Completion.Reply(ctx, utterance))
}

func (r *Router) handover(ctx context.Context, sessionKey string) Reply {
	phone := r.Flow.Phone(sessionKey)
	flag := &models.HandoverFlag{
		SessionKey: sessionKey,
		NeedsHuman: true,
		Phone:      phone,
	}
	if err := r.Handovers.UpsertHandoverFlag(ctx, flag); err != nil {
		log.Printf("❌ Failed to flag %s for handover: %v", sessionKey, err)
	}

	if r.Notifier != nil {
		go func() {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()
			if err := r.Notifier.NotifyHandover(nctx, sessionKey, phone); err != nil {
				log.Printf("⚠️ Pharmacist notification failed for %s: %v", sessionKey, err)
			}
		}()
	}

	return NewReply(HandoverText)
}

func (r *Router) prescriptionUpload(ctx context.Context, sessionKey string) Reply {
	url, err := r.Uploads.CreateUploadTarget(ctx, utils.NewUploadPath(sessionKey))
	if err != nil {
		log.Printf("❌ Failed to create upload target for %s: %v", sessionKey, err)
		return NewReply(UploadFailedText)
	}
	return NewReply(UploadText(url))
}

func (r *Router) record(sessionKey string, sender models.Sender, text string) {
	if r.Messages == nil || text == "" {
		return
	}
	r.Messages.Record(sessionKey, sender, text)
}
