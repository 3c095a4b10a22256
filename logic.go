package main

import (
	"context"
	"math/rand"
	"time"
)

// newRand returns a seeded source when seed is set, a time seeded one otherwise.
func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// drawQuestions samples up to count ids without replacement.
func drawQuestions(allIDs []uint, count int, r *rand.Rand) []uint {
	out := append([]uint(nil), allIDs...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if count < 0 {
		count = 0
	}
	if count > len(out) {
		count = len(out)
	}
	return out[:count]
}

// shuffleAnswers returns the four answers of q in a random order.
func shuffleAnswers(q Question, r *rand.Rand) []string {
	a := q.Answers()
	out := a[:]
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// DrawQuestions returns up to count questions of the topic pool for
// (subject, topic) in random order. A smaller pool is returned whole.
func (s *Store) DrawQuestions(ctx context.Context, subject, topic string, count int, r *rand.Rand) ([]Question, error) {
	t, err := s.topic(ctx, subject, topic)
	if err != nil {
		return nil, err
	}
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&Question{}).
		Where("topic_id = ? AND subject_id = ?", t.ID, t.SubjectID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, storeErr(err, "questions")
	}
	drawn := drawQuestions(ids, count, r)
	if len(drawn) == 0 {
		return nil, nil
	}

	var qs []Question
	if err := s.db.WithContext(ctx).Where("id IN ?", drawn).Find(&qs).Error; err != nil {
		return nil, storeErr(err, "questions")
	}
	// keep drawn order
	index := make(map[uint]Question, len(qs))
	for _, q := range qs {
		index[q.ID] = q
	}
	out := make([]Question, 0, len(drawn))
	for _, id := range drawn {
		if q, ok := index[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}
