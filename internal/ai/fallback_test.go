package ai

import (
	"reflect"
	"testing"
)

// TestFallbackRoadmap_Shape 兜底路线必须是合法结构：至少一周，每周至少一个子主题
func TestFallbackRoadmap_Shape(t *testing.T) {
	roadmap := FallbackRoadmap("Python", "4 weeks", "beginner")

	if err := validateRoadmap(roadmap); err != nil {
		t.Fatalf("兜底路线结构非法: %v", err)
	}
	if len(roadmap) != 4 {
		t.Errorf("4 weeks 应生成 4 周，实际 %d", len(roadmap))
	}
	if _, ok := roadmap["Week 1"]; !ok {
		t.Error("缺少 Week 1")
	}
}

// TestFallbackRoadmap_Deterministic 相同入参必须得到相同结果
func TestFallbackRoadmap_Deterministic(t *testing.T) {
	a := FallbackRoadmap("Go", "2 weeks", "intermediate")
	b := FallbackRoadmap("Go", "2 weeks", "intermediate")
	if !reflect.DeepEqual(a, b) {
		t.Error("兜底路线应只由入参决定")
	}
}

// TestFallbackQuiz_Shape 兜底测验要通过和真实回复一样的校验
func TestFallbackQuiz_Shape(t *testing.T) {
	quiz := FallbackQuiz("Go", "Basics", "Slices")
	if err := validateQuiz(quiz); err != nil {
		t.Fatalf("兜底测验结构非法: %v", err)
	}
	if len(quiz.Questions) == 0 {
		t.Fatal("兜底测验不能没有题目")
	}
}

// TestFallbackResources_Shape 兜底资源清单同上
func TestFallbackResources_Shape(t *testing.T) {
	resources := FallbackResources("Rust", "6 weeks")
	if err := validateResources(resources); err != nil {
		t.Fatalf("兜底资源清单结构非法: %v", err)
	}
	if len(resources) != 6 {
		t.Errorf("6 weeks 应生成 6 周，实际 %d", len(resources))
	}
}
