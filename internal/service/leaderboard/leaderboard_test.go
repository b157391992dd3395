package leaderboard_test

import (
	"context"
	"testing"

	"zoo_roulette/internal/service/leaderboard"
	"zoo_roulette/internal/service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTop(t *testing.T) {
	userRepo := testutil.NewUserRepo()
	userRepo.AddUser("poor", 100)
	userRepo.AddUser("rich", 5000)
	userRepo.AddUser("middle", 1000)

	serv := leaderboard.NewLeaderboardService(userRepo)

	users, err := serv.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "rich", users[0].Login)
	assert.Equal(t, "middle", users[1].Login)
}

func TestRank(t *testing.T) {
	userRepo := testutil.NewUserRepo()
	userRepo.AddUser("poor", 100)
	richID := userRepo.AddUser("rich", 5000)
	middleID := userRepo.AddUser("middle", 1000)

	serv := leaderboard.NewLeaderboardService(userRepo)

	rank, total, err := serv.Rank(context.Background(), richID)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	assert.Equal(t, 3, total)

	rank, total, err = serv.Rank(context.Background(), middleID)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
	assert.Equal(t, 3, total)

	_, _, err = serv.Rank(context.Background(), 99)
	assert.Error(t, err)
}
