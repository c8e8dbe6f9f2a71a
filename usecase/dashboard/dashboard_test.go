package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository"
	"github.com/fastygo/teamtracker/repository/mocks"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func done(id, owner string, points int, on time.Time) domain.Task {
	created := on.AddDate(0, 0, -1)
	return domain.Task{ID: id, Owner: owner, Description: "task " + id, Points: points, Category: domain.CategoryWork,
		Completed: true, CreatedDate: created, CompletedDate: &on}
}

func open(id, owner string, points int, category domain.Category) domain.Task {
	return domain.Task{ID: id, Owner: owner, Description: "task " + id, Points: points, Category: category,
		CreatedDate: date(2024, 3, 1)}
}

func fixtureTasks() []domain.Task {
	return []domain.Task{
		done("t1", "Ann", 30, date(2024, 3, 4)),
		open("t2", "Bo", 10, domain.CategoryHealth),
		done("t3", "Ann", 20, date(2024, 3, 8)),
		open("t4", "Ann", 2, domain.CategoryLearning),
		done("t5", "Cy", 7, date(2024, 4, 2)),
	}
}

func TestFilterNormalization(t *testing.T) {
	tf, err := Filter{Owner: "All", Category: "all"}.taskFilter()
	require.NoError(t, err)
	assert.Equal(t, repository.TaskFilter{}, tf)

	tf, err = Filter{Owner: " Ann ", Category: "Work"}.taskFilter()
	require.NoError(t, err)
	assert.Equal(t, "Ann", tf.Owner)
	assert.Equal(t, domain.CategoryWork, tf.Category)

	_, err = Filter{Category: "Chores"}.taskFilter()
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSnapshotRejectsMalformedRecords(t *testing.T) {
	broken := done("bad", "Ann", 5, date(2024, 3, 4))
	broken.CompletedDate = nil
	outOfRange := open("big", "Bo", 50, domain.CategoryWork)

	repo := new(mocks.TaskRepository)
	repo.On("List", mock.Anything, repository.TaskFilter{}).Return(append(fixtureTasks(), broken, outOfRange), nil)

	snapshot, err := New(repo, nil, 0, nil).Snapshot(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, snapshot.Tasks, 5)
	assert.Equal(t, []string{"bad", "big"}, snapshot.Rejected)
	assert.Len(t, snapshot.Issues, 2)
}

func TestLeaderboardComputesAndCaches(t *testing.T) {
	repo := new(mocks.TaskRepository)
	repo.On("List", mock.Anything, repository.TaskFilter{}).Return(fixtureTasks(), nil).Once()
	cache := new(mocks.LeaderboardCache)
	cache.On("Get", mock.Anything, "|").Return(nil, repository.ErrCacheMiss).Once()
	cache.On("Set", mock.Anything, "|", mock.Anything, time.Minute).Return(nil).Once()

	uc := New(repo, cache, time.Minute, nil)
	uc.Now = func() time.Time { return date(2024, 4, 3) }

	board, err := uc.Leaderboard(context.Background(), Filter{Owner: "All", Category: "All"})
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "Ann", board.Entries[0].User)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 50, board.Entries[0].TotalPoints)
	assert.Equal(t, []domain.Badge{domain.BadgeGold, domain.BadgeSilver, domain.BadgeBronze}, board.Entries[0].Badges)
	assert.InDelta(t, 0.5, board.Entries[0].Progress, 1e-9)
	assert.Equal(t, "Cy", board.Entries[1].User)
	assert.Equal(t, 2, board.Entries[1].Rank)
	assert.Equal(t, date(2024, 4, 3), board.GeneratedAt)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestLeaderboardServesCacheHit(t *testing.T) {
	cached := &domain.Leaderboard{Entries: []domain.LeaderboardEntry{{Rank: 1, User: "Ann", TotalPoints: 9}}}
	cache := new(mocks.LeaderboardCache)
	cache.On("Get", mock.Anything, "Ann|").Return(cached, nil).Once()
	repo := new(mocks.TaskRepository)

	board, err := New(repo, cache, time.Minute, nil).Leaderboard(context.Background(), Filter{Owner: "Ann"})
	require.NoError(t, err)
	assert.Same(t, cached, board)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestLeaderboardSurvivesCacheOutage(t *testing.T) {
	repo := new(mocks.TaskRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(fixtureTasks(), nil)
	cache := new(mocks.LeaderboardCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	board, err := New(repo, cache, time.Minute, nil).Leaderboard(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, board.Entries, 2)
}

func TestProgressSortedByPeriodThenUser(t *testing.T) {
	tasks := []domain.Task{
		done("a", "Bo", 4, date(2024, 3, 5)),
		done("b", "Ann", 5, date(2024, 3, 4)),
		done("c", "Ann", 7, date(2024, 3, 8)),
		done("d", "Ann", 1, date(2024, 2, 27)),
	}
	repo := new(mocks.TaskRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(tasks, nil)

	view, err := New(repo, nil, 0, nil).Progress(context.Background(), Filter{}, domain.BucketWeek)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProgressPoint{
		{User: "Ann", Period: "2024-W09", Points: 1},
		{User: "Ann", Period: "2024-W10", Points: 12},
		{User: "Bo", Period: "2024-W10", Points: 4},
	}, view.Points)
	assert.Empty(t, view.Issues)

	_, err = New(repo, nil, 0, nil).Progress(context.Background(), Filter{}, domain.Bucketing("day"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestBoardAdminAndSingleUserModes(t *testing.T) {
	repo := new(mocks.TaskRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(fixtureTasks(), nil)
	uc := New(repo, nil, 0, nil)

	board, err := uc.Board(context.Background(), Filter{}, BoardOptions{AdminMode: true})
	require.NoError(t, err)
	require.Len(t, board.Columns, 3)
	assert.Equal(t, "Ann", board.Columns[0].User)
	assert.Equal(t, "Bo", board.Columns[1].User)
	assert.Equal(t, "Cy", board.Columns[2].User)

	require.Len(t, board.Columns[0].Cards, 1)
	card := board.Columns[0].Cards[0]
	assert.Equal(t, "t4", card.ID)
	assert.Equal(t, "#8e44ad", card.Color)
	assert.True(t, card.Editable)
	assert.Equal(t, "#27ae60", board.Columns[1].Cards[0].Color)
	assert.Empty(t, board.Columns[2].Cards)

	board, err = uc.Board(context.Background(), Filter{}, BoardOptions{})
	require.NoError(t, err)
	require.Len(t, board.Columns, 1)
	assert.Equal(t, "Ann", board.Columns[0].User)
	assert.False(t, board.Columns[0].Cards[0].Editable)
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "https://robohash.org/82e335f7ac0e0e412b2ae15abe662110?set=set5", AvatarURL("Ann"))
}
