package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 상품 (PRODUCT_) ====================
	ProductNotFound       = "PRODUCT_NOT_FOUND"        // 상품 없음
	ProductPhotoRequired  = "PRODUCT_PHOTO_REQUIRED"   // 사진 필요
	ProductTooManyPhotos  = "PRODUCT_TOO_MANY_PHOTOS"  // 사진 개수 초과
	ProductPhotoSlotsFull = "PRODUCT_PHOTO_SLOTS_FULL" // 사진 슬롯 가득 참
	ProductBuyerRequired  = "PRODUCT_BUYER_REQUIRED"   // 구매자 필요

	// ==================== 회원 (MEMBER_) ====================
	MemberNotFound       = "MEMBER_NOT_FOUND"        // 회원 없음
	MemberNicknameExists = "MEMBER_NICKNAME_EXISTS" // 닉네임 중복

	// ==================== 관심상품 (INTERESTED_) ====================
	InterestedAlreadyExists = "INTERESTED_ALREADY_EXISTS" // 이미 찜함
	InterestedNotFound      = "INTERESTED_NOT_FOUND"      // 찜 내역 없음

	// ==================== 채팅 (CHAT_) ====================
	ChatInvalidMessage = "CHAT_INVALID_MESSAGE" // 잘못된 메시지

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
