package chat

import (
	"fmt"
	"strings"

	"github.com/webvantage/chatbot-platform/internal/classifier"
)

// Composer selects the canned response for a classified category and
// conversation stage. It holds no state; all inputs arrive per call.
type Composer struct {
	agencyName string
}

// NewComposer creates a composer that signs responses with the agency name.
func NewComposer(agencyName string) *Composer {
	if agencyName == "" {
		agencyName = "Webvantage"
	}
	return &Composer{agencyName: agencyName}
}

// Compose renders the reply for the session's current state. The boolean
// reports whether the caller should surface the appointment-booking form.
func (c *Composer) Compose(sc *SessionContext) (string, bool) {
	if sc.Category == classifier.CategoryProhibited {
		return prohibitedReply, false
	}

	switch sc.Stage {
	case StageDiscovery:
		return c.discoveryReply(sc), false
	case StageRecommendation:
		return c.recommendationReply(sc), false
	case StageClosing:
		return c.closingReply(sc), true
	default:
		return greeting(sc.Name), false
	}
}

func (c *Composer) discoveryReply(sc *SessionContext) string {
	if sc.JustCorrected {
		return fmt.Sprintf("Got it, a %s business — thanks for correcting me! %s Which of these areas would you like to focus on?",
			humanize(sc.Category), adviceFor(sc.Category))
	}
	if sc.Category == classifier.CategoryGeneral {
		return fmt.Sprintf("%s Tell me a bit more about your business so I can get specific.", genericAdvice)
	}
	return fmt.Sprintf("A %s business — great! %s Which of these areas would you like to focus on?",
		humanize(sc.Category), adviceFor(sc.Category))
}

func (c *Composer) recommendationReply(sc *SessionContext) string {
	intro := fmt.Sprintf("Based on what you've told me about your %s business, here's how %s can help.",
		humanize(sc.Category), c.agencyName)
	if sc.Category == classifier.CategoryGeneral {
		intro = fmt.Sprintf("Here's how %s can help.", c.agencyName)
	}
	reply := intro + "\n\n" + serviceMenuText()
	if len(sc.Services) > 0 {
		reply += fmt.Sprintf("\nYou mentioned %s — happy to go deeper on any of those.",
			strings.Join(sc.Services, ", "))
	}
	return reply
}

func (c *Composer) closingReply(sc *SessionContext) string {
	name := sc.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Great, %s! The next step is a free consultation where we go over pricing and a plan for your business. Pick a convenient evening slot and I'll lock it in — we're open Monday to Friday 6pm-3am and Saturday 6pm-10pm.", name)
}
