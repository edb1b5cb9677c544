package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

type savedAnswer struct {
	participantID int32
	questionID    int32
	text          string
	isLate        bool
}

// fakeRepo is an in-memory Repository for engine tests.
type fakeRepo struct {
	games     map[int32]*models.Game
	settings  map[int32]*models.QuestionSettings
	ordered   map[int32][]int32
	activeIDs map[int32]*int32

	saved         []savedAnswer
	statusUpdates []models.GameStatus
	activations   []int32
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		games:     make(map[int32]*models.Game),
		settings:  make(map[int32]*models.QuestionSettings),
		ordered:   make(map[int32][]int32),
		activeIDs: make(map[int32]*int32),
	}
}

func (f *fakeRepo) FindGameByID(ctx context.Context, gameID int32) (*models.Game, error) {
	return f.games[gameID], nil
}

func (f *fakeRepo) FindActiveQuestionID(ctx context.Context, gameID int32) (*int32, error) {
	return f.activeIDs[gameID], nil
}

func (f *fakeRepo) GetQuestionSettings(ctx context.Context, questionID int32) (*models.QuestionSettings, error) {
	return f.settings[questionID], nil
}

func (f *fakeRepo) GetOrderedQuestionIDs(ctx context.Context, gameID int32) ([]int32, error) {
	return f.ordered[gameID], nil
}

func (f *fakeRepo) ActivateQuestion(ctx context.Context, gameID, questionID int32) error {
	id := questionID
	f.activeIDs[gameID] = &id
	f.activations = append(f.activations, questionID)
	return nil
}

func (f *fakeRepo) UpdateGameStatus(ctx context.Context, gameID int32, status models.GameStatus) error {
	if game, ok := f.games[gameID]; ok {
		game.Status = status
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeRepo) GetGameSettings(ctx context.Context, gameID int32) (*models.GameSettings, error) {
	game := f.games[gameID]
	if game == nil {
		return nil, nil
	}
	return &models.GameSettings{
		CanAppeal:       game.CanAppeal,
		TimeToThinkSec:  game.TimeToThinkSec,
		TimeToAnswerSec: game.TimeToAnswerSec,
	}, nil
}

func (f *fakeRepo) SaveAnswer(ctx context.Context, participantID, questionID int32, text string, isLate bool) (*models.Answer, error) {
	f.saved = append(f.saved, savedAnswer{participantID, questionID, text, isLate})
	return &models.Answer{
		ID:            int32(len(f.saved)),
		ParticipantID: participantID,
		QuestionID:    questionID,
		Text:          text,
		Status:        models.AnswerStatusUnset,
		IsLate:        isLate,
	}, nil
}

func (f *fakeRepo) JudgeAnswer(ctx context.Context, answerID int32, verdict models.AnswerStatus, judgeID int32) (*models.Answer, error) {
	return &models.Answer{ID: answerID, Status: verdict}, nil
}

func (f *fakeRepo) GetAnswerByID(ctx context.Context, answerID int32) (*models.Answer, error) {
	return &models.Answer{ID: answerID, Status: models.AnswerStatusDisputable}, nil
}

func (f *fakeRepo) GetAnswersByGame(ctx context.Context, gameID int32) ([]models.Answer, error) {
	return nil, nil
}

func (f *fakeRepo) CreateDispute(ctx context.Context, answerID int32, comment string) error {
	return nil
}

func (f *fakeRepo) GetLeaderboard(ctx context.Context, gameID int32) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeRepo) GetParticipantsByGame(ctx context.Context, gameID int32) ([]models.Participant, error) {
	return nil, nil
}

func (f *fakeRepo) JoinGame(ctx context.Context, gameID, teamID int32, socketID string) (*models.Participant, error) {
	return &models.Participant{ID: 1, GameID: gameID, TeamID: teamID, IsAvailable: true}, nil
}

func (f *fakeRepo) SetParticipantDisconnected(ctx context.Context, socketID string) error {
	return nil
}

type fakeOutbox struct {
	inserted []string
}

func (f *fakeOutbox) Insert(ctx context.Context, gameID int32, eventType string, payload any) error {
	f.inserted = append(f.inserted, eventType)
	return nil
}

func newTestEngine(repo *fakeRepo) (*Engine, *fakeOutbox) {
	out := &fakeOutbox{}
	cache := NewCache(repo)
	return NewEngine(repo, out, cache, clockwork.NewFakeClock()), out
}

func liveGame(repo *fakeRepo, gameID int32) {
	repo.games[gameID] = &models.Game{
		ID:              gameID,
		HostID:          10,
		Status:          models.GameStatusLive,
		TimeToThinkSec:  60,
		TimeToAnswerSec: 10,
		CanAppeal:       true,
	}
}

func TestQuestionCycleCountdown(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.settings[7] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 60, TimeToAnswerSec: 10}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()

	var ticks []int
	var phaseEnded []models.GamePhase
	onTick := func(gameID int32, seconds int, phase models.GamePhase, questionID *int32) {
		ticks = append(ticks, seconds)
	}
	onPhase := func(phase models.GamePhase) {
		phaseEnded = append(phaseEnded, phase)
	}

	if err := eng.StartQuestionCycle(ctx, 1, 7, onTick, onPhase); err != nil {
		t.Fatalf("start question cycle: %v", err)
	}
	if got := eng.cache.Phase(1); got != models.PhaseThinking {
		t.Fatalf("phase = %s, want THINKING", got)
	}
	if got := eng.cache.RemainingSeconds(1); got != 60 {
		t.Fatalf("seconds = %d, want 60", got)
	}
	if len(ticks) != 1 || ticks[0] != 60 {
		t.Fatalf("initial ticks = %v, want [60]", ticks)
	}

	for i := 0; i < 60; i++ {
		eng.tick(ctx, 1)
	}
	if got := eng.cache.Phase(1); got != models.PhaseAnswering {
		t.Fatalf("phase after 60 ticks = %s, want ANSWERING", got)
	}
	if got := eng.cache.RemainingSeconds(1); got != 10 {
		t.Fatalf("seconds after 60 ticks = %d, want 10", got)
	}

	for i := 0; i < 10; i++ {
		eng.tick(ctx, 1)
	}
	if got := eng.cache.Phase(1); got != models.PhaseIdle {
		t.Fatalf("phase after full cycle = %s, want IDLE", got)
	}
	if got := eng.cache.RemainingSeconds(1); got != 0 {
		t.Fatalf("seconds after full cycle = %d, want 0", got)
	}
	if len(phaseEnded) != 1 || phaseEnded[0] != models.PhaseIdle {
		t.Fatalf("phase callbacks = %v, want [IDLE]", phaseEnded)
	}
	if eng.cache.Timer(1) != nil {
		t.Fatal("timer should be cleared after cycle end")
	}
	if eng.cache.TickCallback(1) != nil {
		t.Fatal("callbacks should be removed after cycle end")
	}
}

func TestStartQuestionCycleValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.games[1] = &models.Game{ID: 1, Status: models.GameStatusDraft}
	repo.settings[7] = &models.QuestionSettings{GameID: 2, TimeToThinkSec: 30, TimeToAnswerSec: 10}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()

	err := eng.StartQuestionCycle(ctx, 1, 7, nil, nil)
	if err == nil {
		t.Fatal("expected error for DRAFT game")
	}

	liveGame(repo, 2)
	repo.settings[8] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 30, TimeToAnswerSec: 10}
	if err := eng.StartQuestionCycle(ctx, 2, 8, nil, nil); !errors.Is(err, ErrQuestionMismatch) {
		t.Fatalf("err = %v, want ErrQuestionMismatch", err)
	}

	if err := eng.StartQuestionCycle(ctx, 99, 7, nil, nil); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestAdjustTimeOverflowCompletesPhase(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.settings[7] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 60, TimeToAnswerSec: 10}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()

	if err := eng.StartQuestionCycle(ctx, 1, 7, func(int32, int, models.GamePhase, *int32) {}, func(models.GamePhase) {}); err != nil {
		t.Fatalf("start question cycle: %v", err)
	}

	if err := eng.AdjustTime(ctx, 1, -70); err != nil {
		t.Fatalf("adjust time: %v", err)
	}
	if got := eng.cache.Phase(1); got != models.PhaseAnswering {
		t.Fatalf("phase = %s, want ANSWERING", got)
	}
	if got := eng.cache.RemainingSeconds(1); got != 10 {
		t.Fatalf("seconds = %d, want 10 (overflow discarded)", got)
	}
}

func TestAdjustTimeIdleNoop(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)

	eng, _ := newTestEngine(repo)
	if err := eng.AdjustTime(context.Background(), 1, -30); err != nil {
		t.Fatalf("adjust time: %v", err)
	}
	if got := eng.cache.RemainingSeconds(1); got != 0 {
		t.Fatalf("seconds = %d, want 0", got)
	}
	if got := eng.cache.Phase(1); got != models.PhaseIdle {
		t.Fatalf("phase = %s, want IDLE", got)
	}
}

func TestPauseResume(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.settings[7] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 60, TimeToAnswerSec: 10}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()

	var ticks []int
	onTick := func(gameID int32, seconds int, phase models.GamePhase, questionID *int32) {
		ticks = append(ticks, seconds)
	}
	if err := eng.StartQuestionCycle(ctx, 1, 7, onTick, func(models.GamePhase) {}); err != nil {
		t.Fatalf("start question cycle: %v", err)
	}
	eng.tick(ctx, 1)
	eng.tick(ctx, 1)

	if err := eng.PauseTimer(ctx, 1); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !eng.IsPaused(1) {
		t.Fatal("engine should report paused")
	}
	if got := eng.cache.RemainingSeconds(1); got != 58 {
		t.Fatalf("seconds = %d, want 58 (pause preserves value)", got)
	}
	// Pause notifies the frozen value.
	if last := ticks[len(ticks)-1]; last != 58 {
		t.Fatalf("last tick = %d, want 58", last)
	}

	if err := eng.ResumeTimer(ctx, 1); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if eng.IsPaused(1) {
		t.Fatal("engine should not report paused after resume")
	}
	if eng.cache.Timer(1) == nil {
		t.Fatal("resume should restart the timer")
	}

	// Resume while running is a no-op.
	before := eng.cache.Timer(1)
	if err := eng.ResumeTimer(ctx, 1); err != nil {
		t.Fatalf("second resume: %v", err)
	}
	if eng.cache.Timer(1) != before {
		t.Fatal("resume while running should not replace the timer")
	}

	eng.cleanupTimer(1)
}

func TestPauseIdleGameIsNoop(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)

	eng, _ := newTestEngine(repo)
	ctx := context.Background()
	if err := eng.PauseTimer(ctx, 1); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if eng.IsPaused(1) {
		t.Fatal("IDLE game should not report paused")
	}
	if err := eng.ResumeTimer(ctx, 1); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if eng.cache.Timer(1) != nil {
		t.Fatal("resume on IDLE game should not start a timer")
	}
}

func TestProcessAnswerNotLive(t *testing.T) {
	repo := newFakeRepo()
	repo.games[1] = &models.Game{ID: 1, Status: models.GameStatusDraft}

	eng, _ := newTestEngine(repo)
	answer, err := eng.ProcessAnswer(context.Background(), SubmitAnswerRequest{
		GameID: 1, ParticipantID: 5, QuestionID: 7, Answer: "42",
	})
	if err != nil {
		t.Fatalf("process answer: %v", err)
	}
	if answer != nil {
		t.Fatal("answer should be nil for non-LIVE game")
	}
	if len(repo.saved) != 0 {
		t.Fatal("nothing should be persisted for non-LIVE game")
	}
}

func TestProcessAnswerLateFlag(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.settings[7] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 60, TimeToAnswerSec: 10}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()
	if err := eng.StartQuestionCycle(ctx, 1, 7, func(int32, int, models.GamePhase, *int32) {}, func(models.GamePhase) {}); err != nil {
		t.Fatalf("start question cycle: %v", err)
	}

	onTime, err := eng.ProcessAnswer(ctx, SubmitAnswerRequest{GameID: 1, ParticipantID: 5, QuestionID: 7, Answer: "a"})
	if err != nil {
		t.Fatalf("process answer: %v", err)
	}
	if onTime == nil || onTime.IsLate {
		t.Fatalf("answer = %+v, want on-time", onTime)
	}

	wrongQuestion, err := eng.ProcessAnswer(ctx, SubmitAnswerRequest{GameID: 1, ParticipantID: 5, QuestionID: 8, Answer: "b"})
	if err != nil {
		t.Fatalf("process answer: %v", err)
	}
	if wrongQuestion == nil || !wrongQuestion.IsLate {
		t.Fatalf("answer = %+v, want late for mismatched question", wrongQuestion)
	}

	eng.cleanupTimer(1)
	eng.cache.SetPhase(1, models.PhaseIdle)
	idlePhase, err := eng.ProcessAnswer(ctx, SubmitAnswerRequest{GameID: 1, ParticipantID: 5, QuestionID: 7, Answer: "c"})
	if err != nil {
		t.Fatalf("process answer: %v", err)
	}
	if idlePhase == nil || !idlePhase.IsLate {
		t.Fatalf("answer = %+v, want late during IDLE", idlePhase)
	}
	if len(repo.saved) != 3 {
		t.Fatalf("saved answers = %d, want 3 (late answers persisted)", len(repo.saved))
	}
}

func TestStartNextQuestionSequence(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.ordered[1] = []int32{101, 102, 103}
	for _, id := range repo.ordered[1] {
		repo.settings[id] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 30, TimeToAnswerSec: 10}
	}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()
	onTick := func(int32, int, models.GamePhase, *int32) {}

	want := []int32{101, 102, 103}
	for _, expected := range want {
		got, err := eng.StartNextQuestion(ctx, 1, onTick)
		if err != nil {
			t.Fatalf("start next question: %v", err)
		}
		if got == nil || *got != expected {
			t.Fatalf("next question = %v, want %d", got, expected)
		}
	}

	end, err := eng.StartNextQuestion(ctx, 1, onTick)
	if err != nil {
		t.Fatalf("start next question at end: %v", err)
	}
	if end != nil {
		t.Fatalf("next question = %d, want nil at end of questions", *end)
	}

	eng.cleanupTimer(1)
}

func TestStartGameTransitions(t *testing.T) {
	repo := newFakeRepo()
	repo.games[1] = &models.Game{ID: 1, Status: models.GameStatusDraft}

	eng, out := newTestEngine(repo)
	ctx := context.Background()

	status, err := eng.StartGame(ctx, 1)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if status != models.GameStatusLive {
		t.Fatalf("status = %s, want LIVE", status)
	}
	if len(out.inserted) != 1 {
		t.Fatalf("outbox events = %v, want one GameStarted", out.inserted)
	}

	// Starting a LIVE game is a no-op.
	status, err = eng.StartGame(ctx, 1)
	if err != nil {
		t.Fatalf("start live game: %v", err)
	}
	if status != models.GameStatusLive {
		t.Fatalf("status = %s, want LIVE", status)
	}
	if len(repo.statusUpdates) != 1 {
		t.Fatalf("status updates = %d, want 1 (no repeat write)", len(repo.statusUpdates))
	}

	eng.cache.SetStatus(1, models.GameStatusFinished)
	if _, err := eng.StartGame(ctx, 1); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("err = %v, want ErrGameFinished", err)
	}

	if _, err := eng.StartGame(ctx, 99); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestFinishGameStopsTimer(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.settings[7] = &models.QuestionSettings{GameID: 1, TimeToThinkSec: 60, TimeToAnswerSec: 10}

	eng, _ := newTestEngine(repo)
	ctx := context.Background()
	if err := eng.StartQuestionCycle(ctx, 1, 7, func(int32, int, models.GamePhase, *int32) {}, func(models.GamePhase) {}); err != nil {
		t.Fatalf("start question cycle: %v", err)
	}

	status, err := eng.FinishGame(ctx, 1)
	if err != nil {
		t.Fatalf("finish game: %v", err)
	}
	if status != models.GameStatusFinished {
		t.Fatalf("status = %s, want FINISHED", status)
	}
	if eng.cache.Timer(1) != nil {
		t.Fatal("finish should stop the running timer")
	}
	if got := eng.cache.Phase(1); got != models.PhaseIdle {
		t.Fatalf("phase = %s, want IDLE", got)
	}
}

func TestRaiseDisputeAppealsDisabled(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)
	repo.games[1].CanAppeal = false

	eng, _ := newTestEngine(repo)
	if _, err := eng.RaiseDispute(context.Background(), 1, 5, "we were right"); !errors.Is(err, ErrAppealsDisabled) {
		t.Fatalf("err = %v, want ErrAppealsDisabled", err)
	}
}

func TestValidateHost(t *testing.T) {
	repo := newFakeRepo()
	liveGame(repo, 1)

	eng, _ := newTestEngine(repo)
	ctx := context.Background()

	ok, err := eng.ValidateHost(ctx, 1, 10)
	if err != nil || !ok {
		t.Fatalf("ValidateHost(1, 10) = %v, %v, want true", ok, err)
	}
	ok, err = eng.ValidateHost(ctx, 1, 11)
	if err != nil || ok {
		t.Fatalf("ValidateHost(1, 11) = %v, %v, want false", ok, err)
	}
	ok, err = eng.ValidateHost(ctx, 99, 10)
	if err != nil || ok {
		t.Fatalf("ValidateHost(99, 10) = %v, %v, want false", ok, err)
	}
}
