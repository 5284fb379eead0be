package storage

// Column names shared by both variants.
const (
	ColID       = "id"
	ColEmail    = "email"
	ColUsername = "username"
	ColPassword = "password"
	ColName     = "nombre"
	ColFaculty  = "facultad"
	ColStudent  = "matricula"
	ColSemester = "semestre"

	ColStatus = "estado"
	ColUserID = "user_id"
)

// Blob keys used by the flat variant.
const (
	UsersBlobKey   = "usuarios"
	ReportsBlobKey = "reportes_incidencias"
)

// UserRow is the persisted layout of a user account.
type UserRow struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"column:nombre;not null" json:"nombre"`
	Email     string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Username  string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Password  string `gorm:"column:password;not null" json:"password"`
	CreatedOn string `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	Faculty   string `gorm:"column:facultad" json:"facultad"`
	StudentID string `gorm:"column:matricula" json:"matricula"`
	Semester  string `gorm:"column:semestre" json:"semestre"`
}

// TableName returns the table name for GORM.
func (UserRow) TableName() string { return "users" }

func (UserRow) BlobKey() string { return UsersBlobKey }

func (UserRow) UniqueColumns() []string { return []string{ColEmail, ColUsername} }

func (r *UserRow) GetID() int64 { return r.ID }

func (r *UserRow) SetID(id int64) { r.ID = id }

// ReportRow is the persisted layout of an incident report.
// Date is the reported date shown to users; StampedAt is the full creation timestamp.
type ReportRow struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:titulo" json:"titulo"`
	Category    string `gorm:"column:categoria" json:"categoria"`
	Description string `gorm:"column:descripcion" json:"descripcion"`
	Location    string `gorm:"column:ubicacion" json:"ubicacion"`
	Sector      string `gorm:"column:sector" json:"sector"`
	Date        string `gorm:"column:fecha" json:"fecha"`
	Status      string `gorm:"column:estado" json:"estado"`
	Priority    string `gorm:"column:prioridad" json:"prioridad"`
	StampedAt   string `gorm:"column:fecha_completa" json:"fecha_completa"`
	UserID      *int64 `gorm:"column:user_id;index" json:"user_id"`
}

// TableName returns the table name for GORM.
func (ReportRow) TableName() string { return "reports" }

func (ReportRow) BlobKey() string { return ReportsBlobKey }

func (ReportRow) UniqueColumns() []string { return nil }

func (r *ReportRow) GetID() int64 { return r.ID }

func (r *ReportRow) SetID(id int64) { r.ID = id }
