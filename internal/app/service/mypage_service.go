package service

import (
	"context"

	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/repository"
	"github.com/sohwakmo/cucumbermarket-backend/internal/storage"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

type MypageService interface {
	ReadProfileImage(memberID uint) (model.ProfileImage, error)
	UpdateProfileImage(memberID uint, url, name string) (uint, error)
	UploadProfileImage(ctx context.Context, photo PhotoUpload) (string, error)
}

type mypageService struct {
	memberRepo repository.MemberRepository
	store      storage.Storage
}

func NewMypageService(memberRepo repository.MemberRepository, store storage.Storage) MypageService {
	return &mypageService{
		memberRepo: memberRepo,
		store:      store,
	}
}

func (s *mypageService) ReadProfileImage(memberID uint) (model.ProfileImage, error) {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return model.ProfileImage{}, memberLookupError(err, memberID)
	}
	return member.ProfileImage(), nil
}

func (s *mypageService) UpdateProfileImage(memberID uint, url, name string) (uint, error) {
	logger.Info("Updating profile image", map[string]interface{}{
		"member_id": memberID,
		"url":       url,
	})

	if err := s.memberRepo.UpdateProfileImage(memberID, url, name); err != nil {
		return 0, memberLookupError(err, memberID)
	}
	return memberID, nil
}

func (s *mypageService) UploadProfileImage(ctx context.Context, photo PhotoUpload) (string, error) {
	url, err := s.store.Save(ctx, storage.FolderMypage, photo.Filename, photo.Content, photo.ContentType)
	if err != nil {
		logger.Error("Failed to store profile image", err, map[string]interface{}{
			"filename": photo.Filename,
		})
		return "", err
	}
	return url, nil
}
