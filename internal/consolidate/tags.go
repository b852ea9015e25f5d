package consolidate

import (
	"strings"

	"github.com/rcliao/twin-memory/internal/fold"
	"github.com/rcliao/twin-memory/internal/model"
)

// Category labels applied by Tags.
const (
	TagWork     = "work"
	TagStudy    = "study"
	TagLife     = "life"
	TagHealth   = "health"
	TagInterest = "interest"
)

type category struct {
	tag      string
	keywords []string
}

// Keywords are stored already folded and matched with fold.ContainsKeyword:
// English terms as whole words, Chinese terms as substrings.
var categories = []category{
	{TagWork, []string{"工作", "项目", "任务", "会议", "work", "working", "project", "projects", "task", "tasks", "meeting", "meetings"}},
	{TagStudy, []string{"学习", "课程", "教程", "知识", "study", "studying", "course", "courses", "tutorial", "learn", "learning"}},
	{TagLife, []string{"生活", "日常", "家庭", "朋友", "daily", "family", "friend", "friends", "home"}},
	{TagHealth, []string{"健康", "运动", "锻炼", "饮食", "health", "exercise", "workout", "workouts", "diet"}},
	{TagInterest, []string{"爱好", "兴趣", "娱乐", "游戏", "hobby", "hobbies", "entertainment", "game", "games", "gaming"}},
}

// Tags returns the category labels whose keywords occur in the interaction.
// Labels come back in category order.
func Tags(ia model.Interaction) []string {
	contents := make([]string, 0, len(ia.Messages))
	for _, msg := range ia.Messages {
		contents = append(contents, msg.Content)
	}
	text := fold.String(strings.Join(contents, " "))

	tags := []string{}
	for _, c := range categories {
		for _, kw := range c.keywords {
			if fold.ContainsKeyword(text, kw) {
				tags = append(tags, c.tag)
				break
			}
		}
	}
	return tags
}
