package repository

import (
	"testing"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupMemberTest(t *testing.T) (*gorm.DB, MemberRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewMemberRepository(testDB)
}

func TestMemberRepository_CreateAndFind(t *testing.T) {
	testDB, repo := setupMemberTest(t)
	defer db.CleanupTestDB(testDB)

	member := &model.Member{Nickname: "오이", Address: "서울시 마포구"}
	require.NoError(t, repo.Create(member))
	assert.NotZero(t, member.ID)

	found, err := repo.FindByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "오이", found.Nickname)
	assert.Equal(t, model.DefaultGrade, found.Grade)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemberRepository_CreateDuplicateNickname(t *testing.T) {
	testDB, repo := setupMemberTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Member{Nickname: "dup"}))
	assert.Error(t, repo.Create(&model.Member{Nickname: "dup"}))
}

func TestMemberRepository_AdjustGrade(t *testing.T) {
	testDB, repo := setupMemberTest(t)
	defer db.CleanupTestDB(testDB)

	member := &model.Member{Nickname: "grade", Grade: 3.0}
	require.NoError(t, repo.Create(member))

	tests := []struct {
		name  string
		delta float64
		floor *float64
		want  float64
	}{
		{"penalty without floor", -2.5, nil, 0.5},
		{"negative allowed without floor", -2.5, nil, -2.0},
		{"clamped at floor", -2.5, floatPtr(0), 0},
		{"raise above floor", 1.5, floatPtr(0), 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, repo.AdjustGrade(member.ID, tt.delta, tt.floor))

			found, err := repo.FindByID(member.ID)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, found.Grade, 0.0001)
		})
	}

	assert.ErrorIs(t, repo.AdjustGrade(9999, -1, nil), gorm.ErrRecordNotFound)
}

func TestMemberRepository_UpdateProfileImage(t *testing.T) {
	testDB, repo := setupMemberTest(t)
	defer db.CleanupTestDB(testDB)

	member := &model.Member{Nickname: "profile"}
	require.NoError(t, repo.Create(member))

	require.NoError(t, repo.UpdateProfileImage(member.ID, "/images/mypage/a.png", "me.png"))

	found, err := repo.FindByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "/images/mypage/a.png", found.ProfileImageURL)
	assert.Equal(t, "me.png", found.ProfileImageName)

	assert.ErrorIs(t, repo.UpdateProfileImage(9999, "x", "y"), gorm.ErrRecordNotFound)
}

func floatPtr(f float64) *float64 {
	return &f
}
