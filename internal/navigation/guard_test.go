package navigation_test

import (
	"testing"

	"github.com/aretw0/storechat/internal/navigation"
	"github.com/stretchr/testify/assert"
)

func TestQuestionLike(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"2", false},
		{"12", false},
		{"Coxinha", false},
		{"6 units", false},
		{"Do you deliver on Sundays?", true},
		{"do you deliver on sundays", true},
		{"what is in it", true},
		{"I would like something salty for tonight please", true},
		{"one two three four five six", false},
		{"one two three four five six seven", true},
		{"price", true},
		{"Opening soon", false},
		{"?", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, navigation.QuestionLike(tt.text))
		})
	}
}
