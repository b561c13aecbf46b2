package app

import "quizpad-service/internal/domain"

// Score counts the answers that match each question's correct option.
func Score(questions []domain.Question, answers []int) int {
	score := 0
	for i, question := range questions {
		if i < len(answers) && answers[i] == question.Correct {
			score++
		}
	}
	return score
}

// Percent is round(100*score/total) with halves rounded up, computed in integers.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}
