package adapters

import (
	"time"

	"cardenal_backend/internal/feature/users/domain/entity"
	"cardenal_backend/internal/platform/storage"
	"cardenal_backend/internal/shared/clock"
)

// toEntity はストレージの行をドメインエンティティに変換します。
// 作成日時が解析できない場合はゼロ値のままにします。
func toEntity(row storage.UserRow, loc *time.Location) *entity.User {
	created, _ := clock.Parse(row.CreatedOn, loc)
	return &entity.User{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Username:   row.Username,
		Credential: entity.NewCredential(row.Password),
		CreatedAt:  created,
		Faculty:    row.Faculty,
		StudentID:  row.StudentID,
		Semester:   row.Semester,
	}
}

// rowFromEntity はドメインエンティティをストレージの行に変換します。
func rowFromEntity(u *entity.User, loc *time.Location) *storage.UserRow {
	return &storage.UserRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Password:  u.Credential.Sealed(),
		CreatedOn: clock.Format(u.CreatedAt, loc),
		Faculty:   u.Faculty,
		StudentID: u.StudentID,
		Semester:  u.Semester,
	}
}
