package profile

import (
	"strings"

	"github.com/rcliao/twin-memory/internal/fold"
)

const (
	learnedLevel = 0.3
	learnedStep  = 0.05
)

var interestKeywords = []struct {
	topic    string
	keywords []string
}{
	{"programming", []string{"编程", "代码", "开发", "程序", "programming", "code", "coding", "software"}},
	{"music", []string{"音乐", "歌曲", "演唱会", "music", "song", "songs", "concert", "concerts"}},
	{"sports", []string{"运动", "健身", "跑步", "游泳", "sport", "sports", "fitness", "running", "swimming"}},
	{"reading", []string{"阅读", "书", "小说", "reading", "book", "books", "novel", "novels"}},
	{"travel", []string{"旅行", "旅游", "出国", "travel", "traveling", "travelling", "trip", "trips", "abroad"}},
	{"food", []string{"美食", "餐厅", "烹饪", "food", "restaurant", "restaurants", "cooking"}},
}

// LearnFrom nudges interests mentioned in a user message: unknown topics
// are added at a low level, known ones are raised a step, capped at 1.
// It returns the topics it touched.
func (p *Profile) LearnFrom(userMessage string) []string {
	text := fold.String(userMessage)
	var touched []string
	for _, ik := range interestKeywords {
		if !containsAny(text, ik.keywords) {
			continue
		}
		touched = append(touched, ik.topic)

		found := false
		for i := range p.Interests {
			if strings.EqualFold(p.Interests[i].Topic, ik.topic) {
				p.Interests[i].Level = clamp(p.Interests[i].Level + learnedStep)
				found = true
				break
			}
		}
		if !found {
			p.Interests = append(p.Interests, Interest{
				Topic:    ik.topic,
				Level:    learnedLevel,
				Keywords: append([]string(nil), ik.keywords...),
			})
		}
		p.touch()
	}
	return touched
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if fold.ContainsKeyword(text, kw) {
			return true
		}
	}
	return false
}
