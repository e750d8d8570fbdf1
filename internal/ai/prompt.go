package ai

import (
	"fmt"
	"strconv"
	"strings"
)

// roadmapPrompt 由参数拼出确定的提示词，除 API key 外不注入任何机密
func roadmapPrompt(topic, timeframe, level string) string {
	return fmt.Sprintf(`Create a study roadmap for learning %q in %s for a %s learner.
Return a JSON object mapping week labels ("Week 1", "Week 2", ...) to objects of the form:
{"topic": "...", "subtopics": [{"subtopic": "...", "description": "...", "time": "..."}]}.
Each week needs 3-5 subtopics. Return only the JSON object.`, topic, timeframe, level)
}

func quizPrompt(course, topic, subtopic, description string) string {
	return fmt.Sprintf(`Create a 5-question multiple choice quiz for the course %q, topic %q, subtopic %q (%s).
Return a JSON object of the form:
{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}]}.
The answer must be exactly one of the options. Return only the JSON object.`, course, topic, subtopic, description)
}

func resourcesPrompt(course, level, description, timeframe string) string {
	return fmt.Sprintf(`Suggest learning resources for the course %q (%s) for a %s learner over %s.
Return a JSON object mapping week labels ("Week 1", ...) to arrays of
{"title": "...", "type": "video|article|practice", "description": "..."}.
Return only the JSON object.`, course, description, level, timeframe)
}

// StripCodeFence 去掉模型回复外层的 ``` / ```json 包裹
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 去掉语言标记行，如 "json"
	if idx := strings.Index(s, "\n"); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseWeeks 从 "4 weeks" 这样的描述里取周数，取不到就按 4 周
func parseWeeks(timeframe string) int {
	for _, field := range strings.Fields(timeframe) {
		if n, err := strconv.Atoi(field); err == nil && n > 0 {
			if n > 52 {
				return 52
			}
			return n
		}
	}
	return 4
}
