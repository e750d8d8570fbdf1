package ai

// Source 标记结果来自模型还是本地兜底内容
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Subtopic 是一周内的一个子主题
type Subtopic struct {
	Subtopic    string `json:"subtopic"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// Week 是路线里的一周
type Week struct {
	Topic     string     `json:"topic"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Roadmap 周标签（"Week 1"）到该周内容的映射
type Roadmap map[string]Week

// QuizQuestion 一道选择题，Answer 必须是 Options 之一
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz 一份测验
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// Resource 一条学习资源
type Resource struct {
	Title       string `json:"title"`
	Type        string `json:"type"` // video / article / practice
	Description string `json:"description"`
}

// Resources 周标签到该周资源列表的映射
type Resources map[string][]Resource

// RoadmapResult 两分支结果：要么是模型生成并通过校验的路线，要么是兜底路线
type RoadmapResult struct {
	Roadmap Roadmap `json:"roadmap"`
	Source  Source  `json:"source"`
}

// QuizResult 同上
type QuizResult struct {
	Quiz   Quiz   `json:"quiz"`
	Source Source `json:"source"`
}

// ResourcesResult 同上
type ResourcesResult struct {
	Resources Resources `json:"resources"`
	Source    Source    `json:"source"`
}
