package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// Fixtures

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
}

func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword() failed: %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func createCourse(t *testing.T, title string, instructor user.User) course.Course {
	t.Helper()

	crs, err := courseSvc.CreateCourse(context.Background(), course.NewCourse{Title: title}, instructor)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func createReading(t *testing.T, crs course.Course, title string, order int) course.Lecture {
	t.Helper()

	now := time.Now().UTC()
	lec, err := courseRepo.CreateLecture(context.Background(), course.Lecture{
		CourseID:  crs.ID,
		Title:     title,
		Type:      course.LectureTypeReading,
		Content:   "Lorem ipsum dolor sit amet.",
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLecture() failed: %v", err)
	}
	return lec
}

func createQuiz(t *testing.T, crs course.Course, title string, order int, questions []course.Question) course.Lecture {
	t.Helper()

	now := time.Now().UTC()
	lec, err := courseRepo.CreateLecture(context.Background(), course.Lecture{
		CourseID:  crs.ID,
		Title:     title,
		Type:      course.LectureTypeQuiz,
		Questions: questions,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLecture() failed: %v", err)
	}
	return lec
}

func completeLecture(t *testing.T, student user.User, crs course.Course, lec course.Lecture, score *float64) {
	t.Helper()

	ctx := context.Background()
	prog, err := progressSvc.GetOrCreate(ctx, student.ID, crs.ID)
	if err != nil {
		t.Fatalf("GetOrCreate() failed: %v", err)
	}
	if _, err = progressRepo.AddCompletedLecture(ctx, prog.ID, progress.CompletedLecture{
		LectureID:   lec.ID,
		CompletedAt: time.Now().UTC(),
		Score:       score,
	}); err != nil {
		t.Fatalf("AddCompletedLecture() failed: %v", err)
	}
}
