package scoring

import (
	"fmt"
	"time"

	"github.com/vytor/quizmaster/internal/models"
)

// ApplyAnswer folds one scored question into the progress record.
// A wrong answer or a timeout resets the streak. Scoring the first question
// of a session counts as starting a quiz.
func ApplyAnswer(p models.UserProgress, rec models.AnswerRecord) models.UserProgress {
	if rec.QuestionIndex == 0 {
		p.TotalQuizzes++
	}
	if rec.Correct {
		p.CorrectAnswers++
		p.Streak++
	} else {
		p.IncorrectAnswers++
		p.Streak = 0
	}
	p.LastQuizDate = rec.AnsweredAt
	return p
}

// Accuracy returns correct/(correct+incorrect) as a percentage rounded half
// up, or 0 when nothing was answered.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total <= 0 {
		return 0
	}
	return (correct*200 + total) / (total * 2)
}

// LastActive renders the elapsed whole days between last and now.
func LastActive(last, now time.Time) string {
	if last.IsZero() {
		return "Never"
	}
	days := int(now.Sub(last) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// Summarize derives the profile view of p.
func Summarize(p models.UserProgress, stats []models.CategoryStat, now time.Time) models.ProgressSummary {
	if stats == nil {
		stats = []models.CategoryStat{}
	}
	for i := range stats {
		stats[i].Accuracy = Accuracy(stats[i].Correct, stats[i].Incorrect)
	}
	return models.ProgressSummary{
		UserProgress: p,
		Accuracy:     Accuracy(p.CorrectAnswers, p.IncorrectAnswers),
		LastActive:   LastActive(p.LastQuizDate, now),
		Categories:   stats,
	}
}
