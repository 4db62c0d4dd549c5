package services

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const maxMessageLength = 500

const (
	adversarialRefusal = "I'm here to help you find the perfect mobile phone. I can't assist with that request."
	toxicRefusal       = "I maintain a neutral and factual approach. I can provide objective comparisons if you'd like."
	offTopicRefusal    = "I specialize in helping with mobile phone shopping. How can I assist you in finding the right phone?"
	emptyRefusal       = "Please provide a message."
	tooLongRefusal     = "Message too long. Please keep it under 500 characters."
)

var defaultAdversarialPatterns = []string{
	`ignore\s+(previous|above|all|your)\s+(instructions?|rules?|prompts?)`,
	`reveal\s+(your\s+)?(system\s+)?(prompt|instructions?|rules?)`,
	`what\s+(is|are)\s+your\s+(instructions?|rules?|prompts?)`,
	`show\s+(me\s+)?(your\s+)?(system\s+)?(prompt|instructions?)`,
	`(api|secret|private)\s*key`,
	`bypass\s+(security|safety|rules?)`,
	`pretend\s+(you|to)\s+(are|be)`,
	`act\s+as\s+(if|a|an)`,
	`roleplay`,
	`jailbreak`,
	`dan\s+mode`,
	`developer\s+mode`,
}

var defaultToxicPatterns = []string{
	`\b(trash|garbage|shit|crap|sucks?)\s+(brand|phone|company)`,
	`(brand|phone|company)\s+(is|are)\s+(trash|garbage|shit|crap|sucks?)`,
	`(hate|worst|terrible|awful)\s+(brand|phone)`,
}

var defaultPhoneKeywords = []string{
	"phone", "mobile", "smartphone", "camera", "battery", "processor", "ram", "display",
}

var defaultOffTopicKeywords = []string{
	"weather", "news", "politics", "recipe", "cooking", "movie", "song",
	"game", "sport", "football", "cricket", "stock", "investment",
	"health", "medical", "doctor", "medicine", "disease",
}

type safetyService struct {
	adversarial      []*regexp.Regexp
	toxic            []*regexp.Regexp
	phoneKeywords    []string
	offTopicKeywords []string
}

func NewSafetyService() *safetyService {
	compile := func(patterns []string) []*regexp.Regexp {
		return lo.Map(patterns, func(p string, _ int) *regexp.Regexp { return regexp.MustCompile(p) })
	}

	return &safetyService{
		adversarial:      compile(defaultAdversarialPatterns),
		toxic:            compile(defaultToxicPatterns),
		phoneKeywords:    defaultPhoneKeywords,
		offTopicKeywords: defaultOffTopicKeywords,
	}
}

// Validate gates raw user text before it reaches the dialogue manager.
// Checks run adversarial, then toxic, then off-topic; the first violation
// wins and its refusal becomes the visible reply for the turn.
func (s *safetyService) Validate(message string) (bool, string) {
	if strings.TrimSpace(message) == "" {
		return false, emptyRefusal
	}
	if len(message) > maxMessageLength {
		return false, tooLongRefusal
	}

	messageLower := strings.ToLower(message)

	for _, re := range s.adversarial {
		if re.MatchString(messageLower) {
			return false, adversarialRefusal
		}
	}

	for _, re := range s.toxic {
		if re.MatchString(messageLower) {
			return false, toxicRefusal
		}
	}

	if ok, refusal := s.checkOffTopic(messageLower); !ok {
		return false, refusal
	}

	return true, ""
}

func (s *safetyService) checkOffTopic(messageLower string) (bool, string) {
	// Very short inputs don't carry enough signal to classify.
	if len(strings.Fields(messageLower)) < 3 {
		return true, ""
	}

	hasPhoneContext := lo.SomeBy(s.phoneKeywords, func(kw string) bool {
		return strings.Contains(messageLower, kw)
	})
	if hasPhoneContext {
		return true, ""
	}

	offTopicCount := lo.CountBy(s.offTopicKeywords, func(kw string) bool {
		return strings.Contains(messageLower, kw)
	})
	if offTopicCount >= 1 {
		return false, offTopicRefusal
	}

	return true, ""
}
