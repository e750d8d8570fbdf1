package ai

import "fmt"

// 兜底内容只由入参决定，不访问任何外部服务，
// 同样的入参永远得到同样的结果。

// FallbackRoadmap 生成一份最小但结构合法的路线
func FallbackRoadmap(topic, timeframe, level string) Roadmap {
	weeks := parseWeeks(timeframe)
	roadmap := make(Roadmap, weeks)
	for i := 1; i <= weeks; i++ {
		roadmap[fmt.Sprintf("Week %d", i)] = Week{
			Topic: fmt.Sprintf("%s fundamentals, part %d", topic, i),
			Subtopics: []Subtopic{
				{
					Subtopic:    fmt.Sprintf("Core concepts of %s (%d)", topic, i),
					Description: fmt.Sprintf("Introduction to the key ideas of %s for %s learners.", topic, level),
					Time:        "3 hours",
				},
				{
					Subtopic:    fmt.Sprintf("Practice exercises (%d)", i),
					Description: fmt.Sprintf("Hands-on exercises covering week %d topics.", i),
					Time:        "2 hours",
				},
			},
		}
	}
	return roadmap
}

// FallbackQuiz 生成一份结构合法的占位测验
func FallbackQuiz(course, topic, subtopic string) Quiz {
	questions := make([]QuizQuestion, 0, 3)
	for i := 1; i <= 3; i++ {
		questions = append(questions, QuizQuestion{
			Question: fmt.Sprintf("Review question %d on %s (%s, %s)?", i, subtopic, topic, course),
			Options: []string{
				"Review the material and try again",
				"Option B",
				"Option C",
				"Option D",
			},
			Answer: "Review the material and try again",
		})
	}
	return Quiz{Questions: questions}
}

// FallbackResources 生成一份结构合法的占位资源清单
func FallbackResources(course, timeframe string) Resources {
	weeks := parseWeeks(timeframe)
	resources := make(Resources, weeks)
	for i := 1; i <= weeks; i++ {
		label := fmt.Sprintf("Week %d", i)
		resources[label] = []Resource{
			{
				Title:       fmt.Sprintf("%s — official documentation", course),
				Type:        "article",
				Description: fmt.Sprintf("Read the official documentation sections relevant to week %d.", i),
			},
			{
				Title:       fmt.Sprintf("%s practice set %d", course, i),
				Type:        "practice",
				Description: "Work through exercises to consolidate this week's material.",
			},
		}
	}
	return resources
}
