package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Tag pairs of the planner I/O contract. The planning session prints tagged
// blocks to stdout; the wrapper extracts them instead of letting the agent
// touch the filesystem.
const (
	TagPlanBegin        = "[BEGIN_PLAN]"
	TagPlanEnd          = "[END_PLAN]"
	TagPlanJSONBegin    = "[BEGIN_PLAN_JSON]"
	TagPlanJSONEnd      = "[END_PLAN_JSON]"
	TagSynthPromptBegin = "[BEGIN_SYNTH_PROMPT]"
	TagSynthPromptEnd   = "[END_SYNTH_PROMPT]"
	TagFinalBegin       = "[BEGIN_FINAL]"
	TagFinalEnd         = "[END_FINAL]"
)

// RATags returns the begin/end tags for assistant i's findings block.
func RATags(i int) (begin, end string) {
	return fmt.Sprintf("[BEGIN_RA_%d]", i), fmt.Sprintf("[END_RA_%d]", i)
}

// ExtractBlock returns the trimmed content between the first occurrence of
// startTag and the following endTag, or "" when either tag is absent.
func ExtractBlock(content, startTag, endTag string) string {
	start := strings.Index(content, startTag)
	if start < 0 {
		return ""
	}
	rest := content[start+len(startTag):]
	end := strings.Index(rest, endTag)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// Session holds everything extracted from a planning session's stdout.
type Session struct {
	// Plan is the decided configuration (count, focuses, synthesis prompt).
	Plan Plan
	// Findings maps assistant indices to findings blocks the planner chose
	// to emit directly, keyed 1..MaxAssistants.
	Findings map[int]string
	// FinalText is an optional final analysis emitted by the planner.
	FinalText string
}

// planJSON mirrors the [BEGIN_PLAN_JSON] block. assistant_focuses may be
// either an object mapping string indices to focus strings or an ordered
// array, so it is captured raw and decoded in two passes.
type planJSON struct {
	AssistantCount int             `json:"assistant_count"`
	Focuses        json.RawMessage `json:"assistant_focuses"`
}

// ParseSession extracts all tagged blocks from a planning session's output.
// Malformed plan JSON is ignored silently; the fallback rules in Normalize
// take over. A missing synthesis prompt is reported through the returned
// Session (Plan.SynthesisPrompt == "") rather than as an error, because the
// caller owns the retry policy.
func ParseSession(content string) Session {
	s := Session{Findings: make(map[int]string)}

	s.Plan.PlanText = ExtractBlock(content, TagPlanBegin, TagPlanEnd)
	s.FinalText = ExtractBlock(content, TagFinalBegin, TagFinalEnd)
	s.Plan.SynthesisPrompt = ExtractBlock(content, TagSynthPromptBegin, TagSynthPromptEnd)

	for i := 1; i <= MaxAssistants; i++ {
		begin, end := RATags(i)
		if block := ExtractBlock(content, begin, end); block != "" {
			s.Findings[i] = block
		}
	}

	if raw := ExtractBlock(content, TagPlanJSONBegin, TagPlanJSONEnd); raw != "" {
		var pj planJSON
		if err := json.Unmarshal([]byte(raw), &pj); err == nil {
			if pj.AssistantCount >= MinAssistants && pj.AssistantCount <= MaxAssistants {
				s.Plan.AssistantCount = pj.AssistantCount
			}
			if focuses := parseFocuses(pj.Focuses); len(focuses) > 0 {
				s.Plan.Focuses = focuses
			}
		}
	}

	return s
}

// parseFocuses decodes the assistant_focuses value, accepting both the object
// and the array form. Invalid keys and blank values are skipped.
func parseFocuses(raw json.RawMessage) map[int]string {
	if len(raw) == 0 {
		return nil
	}

	parsed := make(map[int]string)

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		for key, value := range asMap {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 1 || idx > MaxAssistants {
				continue
			}
			if v := strings.TrimSpace(value); v != "" {
				parsed[idx] = v
			}
		}
		if len(parsed) > 0 {
			return parsed
		}
		return nil
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		for i, value := range asList {
			if i+1 > MaxAssistants {
				break
			}
			if v := strings.TrimSpace(value); v != "" {
				parsed[i+1] = v
			}
		}
		if len(parsed) > 0 {
			return parsed
		}
	}
	return nil
}
