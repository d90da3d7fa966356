package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

type memorySessionRepo struct {
	sessions map[uint]models.Session
	nextID   uint
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[uint]models.Session), nextID: 1}
}

func (m *memorySessionRepo) List(ctx context.Context) ([]models.Session, error) {
	results := make([]models.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		results = append(results, session)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySessionRepo) GetByID(ctx context.Context, id uint) (models.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return models.Session{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (m *memorySessionRepo) GetActive(ctx context.Context) (models.Session, error) {
	for _, session := range m.sessions {
		if session.ActiveStatus {
			return session, nil
		}
	}
	return models.Session{}, gorm.ErrRecordNotFound
}

func (m *memorySessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = m.nextID
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	m.sessions[m.nextID] = *session
	m.nextID++
	return nil
}

func (m *memorySessionRepo) Update(ctx context.Context, session *models.Session) error {
	if _, ok := m.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	session.UpdatedAt = time.Now()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionRepo) UpdateGuarded(ctx context.Context, session *models.Session, expectedVersion uint) error {
	stored, ok := m.sessions[session.ID]
	if !ok || stored.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	session.Version = expectedVersion + 1
	session.UpdatedAt = time.Now()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessionRepo) DeactivateOthers(ctx context.Context, id uint) error {
	for key, session := range m.sessions {
		if key != id && session.ActiveStatus {
			session.ActiveStatus = false
			m.sessions[key] = session
		}
	}
	return nil
}

func (m *memorySessionRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sessions, id)
	return nil
}

type memoryStudentRepo struct {
	students map[uint]models.Student
	nextID   uint
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[uint]models.Student), nextID: 1}
}

func (m *memoryStudentRepo) sorted() []models.Student {
	results := make([]models.Student, 0, len(m.students))
	for _, student := range m.students {
		results = append(results, student)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].StudentNumber < results[j].StudentNumber })
	return results
}

func (m *memoryStudentRepo) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, int64, error) {
	filtered := make([]models.Student, 0, len(m.students))
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	for _, student := range m.sorted() {
		if name != "" {
			haystack := strings.ToLower(student.FirstName + " " + student.SecondName + " " + student.LastName)
			if !strings.Contains(haystack, name) {
				continue
			}
		}
		if filter.RegNo != "" && student.RegNo != strings.TrimSpace(filter.RegNo) {
			continue
		}
		filtered = append(filtered, student)
	}

	total := int64(len(filtered))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(filtered) {
			return []models.Student{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}
	return filtered, total, nil
}

func (m *memoryStudentRepo) ListAll(ctx context.Context) ([]models.Student, error) {
	return m.sorted(), nil
}

func (m *memoryStudentRepo) ListBySession(ctx context.Context, sessionID uint) ([]models.Student, error) {
	results := make([]models.Student, 0)
	for _, student := range m.sorted() {
		if student.SessionID == sessionID {
			results = append(results, student)
		}
	}
	return results, nil
}

func (m *memoryStudentRepo) ListBySponsor(ctx context.Context, sponsorID uint) ([]models.Student, error) {
	results := make([]models.Student, 0)
	for _, student := range m.sorted() {
		if student.SponsorID == sponsorID {
			results = append(results, student)
		}
	}
	return results, nil
}

func (m *memoryStudentRepo) ListByStatus(ctx context.Context, status models.RegistrationStatus) ([]models.Student, error) {
	results := make([]models.Student, 0)
	for _, student := range m.sorted() {
		if student.Status == status {
			results = append(results, student)
		}
	}
	return results, nil
}

func (m *memoryStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetDetailed(ctx context.Context, id uint) (models.Student, error) {
	return m.GetByID(ctx, id)
}

func (m *memoryStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = m.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()
	m.students[m.nextID] = *student
	m.nextID++
	return nil
}

func (m *memoryStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	student.UpdatedAt = time.Now()
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *memoryStudentRepo) BulkSetStatus(ctx context.Context, ids []uint, status models.RegistrationStatus, sessionID uint) error {
	for _, id := range ids {
		student, ok := m.students[id]
		if !ok {
			continue
		}
		student.Status = status
		student.SessionID = sessionID
		m.students[id] = student
	}
	return nil
}

func (m *memoryStudentRepo) ReassignSponsor(ctx context.Context, fromSponsorID, toSponsorID uint) (int64, error) {
	var moved int64
	for id, student := range m.students {
		if student.SponsorID == fromSponsorID {
			student.SponsorID = toSponsorID
			m.students[id] = student
			moved++
		}
	}
	return moved, nil
}

func (m *memoryStudentRepo) UpdateCampusStatus(ctx context.Context, id uint, status models.CampusStatus, scannedAt time.Time) error {
	student, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	student.CampusStatus = status
	student.LastScanDate = &scannedAt
	m.students[id] = student
	return nil
}

func (m *memoryStudentRepo) CountByClassAndStatus(ctx context.Context, classID uint, status models.RegistrationStatus) (int64, error) {
	var count int64
	for _, student := range m.students {
		if student.ClassID == classID && student.Status == status {
			count++
		}
	}
	return count, nil
}

type memoryPaymentRepo struct {
	payments map[uint]models.Payment
	nextID   uint
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{payments: make(map[uint]models.Payment), nextID: 1}
}

func (m *memoryPaymentRepo) sorted() []models.Payment {
	results := make([]models.Payment, 0, len(m.payments))
	for _, payment := range m.payments {
		results = append(results, payment)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

func (m *memoryPaymentRepo) List(ctx context.Context) ([]models.Payment, error) {
	return m.sorted(), nil
}

func (m *memoryPaymentRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error) {
	results := make([]models.Payment, 0)
	for _, payment := range m.sorted() {
		if payment.StudentID == studentID {
			results = append(results, payment)
		}
	}
	return results, nil
}

func (m *memoryPaymentRepo) ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error) {
	results := make([]models.Payment, 0)
	for _, payment := range m.sorted() {
		if payment.SessionID == sessionID {
			results = append(results, payment)
		}
	}
	return results, nil
}

func (m *memoryPaymentRepo) GetByID(ctx context.Context, id uint) (models.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return models.Payment{}, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (m *memoryPaymentRepo) GetByStudentAndSession(ctx context.Context, studentID, sessionID uint) (models.Payment, error) {
	for _, payment := range m.payments {
		if payment.StudentID == studentID && payment.SessionID == sessionID {
			return payment, nil
		}
	}
	return models.Payment{}, gorm.ErrRecordNotFound
}

func (m *memoryPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = m.nextID
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()
	m.payments[m.nextID] = *payment
	m.nextID++
	return nil
}

func (m *memoryPaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	if _, ok := m.payments[payment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	payment.UpdatedAt = time.Now()
	m.payments[payment.ID] = *payment
	return nil
}

func (m *memoryPaymentRepo) DeleteBySession(ctx context.Context, sessionID uint) error {
	for id, payment := range m.payments {
		if payment.SessionID == sessionID {
			delete(m.payments, id)
		}
	}
	return nil
}

type memorySponsorRepo struct {
	sponsors map[uint]models.Sponsor
	nextID   uint
}

func newMemorySponsorRepo() *memorySponsorRepo {
	return &memorySponsorRepo{sponsors: make(map[uint]models.Sponsor), nextID: 1}
}

func (m *memorySponsorRepo) List(ctx context.Context) ([]models.Sponsor, error) {
	results := make([]models.Sponsor, 0, len(m.sponsors))
	for _, sponsor := range m.sponsors {
		results = append(results, sponsor)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (m *memorySponsorRepo) GetByID(ctx context.Context, id uint) (models.Sponsor, error) {
	sponsor, ok := m.sponsors[id]
	if !ok {
		return models.Sponsor{}, gorm.ErrRecordNotFound
	}
	return sponsor, nil
}

func (m *memorySponsorRepo) GetByName(ctx context.Context, name string) (models.Sponsor, error) {
	for _, sponsor := range m.sponsors {
		if sponsor.Name == name {
			return sponsor, nil
		}
	}
	return models.Sponsor{}, gorm.ErrRecordNotFound
}

func (m *memorySponsorRepo) Create(ctx context.Context, sponsor *models.Sponsor) error {
	sponsor.ID = m.nextID
	m.sponsors[m.nextID] = *sponsor
	m.nextID++
	return nil
}

func (m *memorySponsorRepo) Update(ctx context.Context, sponsor *models.Sponsor) error {
	if _, ok := m.sponsors[sponsor.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.sponsors[sponsor.ID] = *sponsor
	return nil
}

func (m *memorySponsorRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.sponsors[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sponsors, id)
	return nil
}

type memoryClassRepo struct {
	classes map[uint]models.Class
	nextID  uint
}

func newMemoryClassRepo() *memoryClassRepo {
	return &memoryClassRepo{classes: make(map[uint]models.Class), nextID: 1}
}

func (m *memoryClassRepo) List(ctx context.Context) ([]models.Class, error) {
	results := make([]models.Class, 0, len(m.classes))
	for _, class := range m.classes {
		results = append(results, class)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (m *memoryClassRepo) GetByID(ctx context.Context, id uint) (models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (m *memoryClassRepo) Create(ctx context.Context, class *models.Class) error {
	class.ID = m.nextID
	m.classes[m.nextID] = *class
	m.nextID++
	return nil
}

func (m *memoryClassRepo) Update(ctx context.Context, class *models.Class) error {
	if _, ok := m.classes[class.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.classes[class.ID] = *class
	return nil
}

func (m *memoryClassRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.classes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.classes, id)
	return nil
}

type memoryScanRepo struct {
	scans  map[uint]models.Scan
	nextID uint
}

func newMemoryScanRepo() *memoryScanRepo {
	return &memoryScanRepo{scans: make(map[uint]models.Scan), nextID: 1}
}

func (m *memoryScanRepo) Create(ctx context.Context, scan *models.Scan) error {
	scan.ID = m.nextID
	m.scans[m.nextID] = *scan
	m.nextID++
	return nil
}

func (m *memoryScanRepo) sorted() []models.Scan {
	results := make([]models.Scan, 0, len(m.scans))
	for _, scan := range m.scans {
		results = append(results, scan)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date.After(results[j].Date) })
	return results
}

func (m *memoryScanRepo) List(ctx context.Context, filter repository.ScanFilter) ([]models.Scan, int64, error) {
	results := m.sorted()
	total := int64(len(results))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(results) {
			return []models.Scan{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(results) {
			end = len(results)
		}
		results = results[start:end]
	}
	return results, total, nil
}

func (m *memoryScanRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Scan, error) {
	results := make([]models.Scan, 0)
	for _, scan := range m.sorted() {
		if scan.StudentID != nil && *scan.StudentID == studentID {
			results = append(results, scan)
		}
	}
	return results, nil
}

type memoryCounterRepo struct {
	values map[string]int64
}

func newMemoryCounterRepo() *memoryCounterRepo {
	return &memoryCounterRepo{values: make(map[string]int64)}
}

func (m *memoryCounterRepo) Next(ctx context.Context, name string) (int64, error) {
	m.values[name]++
	return m.values[name], nil
}

// memoryUnitOfWork hands the same in-memory repositories to the callback.
// There is no rollback; tests assert on the happy path or fail before writes.
type memoryUnitOfWork struct {
	set repository.RepoSet
}

func (m *memoryUnitOfWork) Do(ctx context.Context, fn func(tx repository.RepoSet) error) error {
	return fn(m.set)
}

// fixture bundles the in-memory repositories shared by the service tests.
type fixture struct {
	sessions *memorySessionRepo
	students *memoryStudentRepo
	payments *memoryPaymentRepo
	sponsors *memorySponsorRepo
	classes  *memoryClassRepo
	scans    *memoryScanRepo
	counters *memoryCounterRepo
	uow      *memoryUnitOfWork
}

func newFixture() *fixture {
	f := &fixture{
		sessions: newMemorySessionRepo(),
		students: newMemoryStudentRepo(),
		payments: newMemoryPaymentRepo(),
		sponsors: newMemorySponsorRepo(),
		classes:  newMemoryClassRepo(),
		scans:    newMemoryScanRepo(),
		counters: newMemoryCounterRepo(),
	}
	f.uow = &memoryUnitOfWork{set: repository.RepoSet{
		Sessions: f.sessions,
		Students: f.students,
		Payments: f.payments,
		Sponsors: f.sponsors,
		Counters: f.counters,
	}}
	return f
}
