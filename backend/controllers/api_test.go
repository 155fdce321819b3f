package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"eadsystem/backend/config"
	"eadsystem/backend/routes"
	"eadsystem/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

func TestMain(m *testing.M) {
	// Setup
	setup()
	// Run tests
	code := m.Run()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		JWTSecret:      "testsecret",
		ServerPort:     "8080",
		StorageQuotaMB: 500,
		MaxVideoMB:     100,
		MaxMaterialMB:  50,
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file:api?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	if err := utils.AutoMigrate(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)
}

func doJSON(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, name, email, role string) string {
	t.Helper()
	status, body := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	assert.Equal(t, fiber.StatusOK, status)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	registerUser(t, "Login User", "login@example.com", "student")

	status, _ := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Login User",
		"email":    "login@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	status, _ := doJSON(t, "GET", "/api/courses/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestStudentsCannotCreateCourses(t *testing.T) {
	token := registerUser(t, "Only Student", "onlystudent@example.com", "student")

	status, _ := doJSON(t, "POST", "/api/courses/", token, map[string]interface{}{
		"title": "Sneaky Course",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

// End-to-end walk over the HTTP surface: a teacher publishes a course with a
// lesson, a student enrolls into the public course, watches the lesson and
// ends up with a completed course and a notification.
func TestCourseLifecycleOverHTTP(t *testing.T) {
	teacherToken := registerUser(t, "HTTP Teacher", "httpteacher@example.com", "teacher")
	studentToken := registerUser(t, "HTTP Student", "httpstudent@example.com", "student")

	status, body := doJSON(t, "POST", "/api/courses/", teacherToken, map[string]interface{}{
		"Title":       "HTTP Course",
		"Description": "Served over HTTP",
		"Public":      true,
	})
	assert.Equal(t, fiber.StatusOK, status)
	course := body["course"].(map[string]interface{})
	courseID := uint(course["ID"].(float64))

	status, body = doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), teacherToken, map[string]interface{}{
		"title":            "Only Lesson",
		"duration_minutes": 10,
	})
	assert.Equal(t, fiber.StatusOK, status)
	lesson := body["lesson"].(map[string]interface{})
	lessonID := uint(lesson["ID"].(float64))

	// Public course: enrollment is approved on the spot.
	status, body = doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), studentToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	enrollment := body["enrollment"].(map[string]interface{})
	assert.Equal(t, "approved", enrollment["Status"])

	// Enrolling twice fails.
	status, _ = doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), studentToken, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	// Watch the whole lesson.
	status, _ = doJSON(t, "POST", fmt.Sprintf("/api/lessons/%d/progress", lessonID), studentToken, map[string]interface{}{
		"watched_seconds": 600.0,
		"total_seconds":   600.0,
	})
	assert.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, "GET", fmt.Sprintf("/api/courses/%d/progress", courseID), studentToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	rollup := body["course_progress"].(map[string]interface{})
	assert.InDelta(t, 100.0, rollup["Percentage"].(float64), 0.001)

	status, body = doJSON(t, "GET", "/api/notifications", studentToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Greater(t, body["unread_count"].(float64), 0.0)
}

// Progress updates for non-enrolled users must be refused.
func TestProgressRequiresEnrollment(t *testing.T) {
	teacherToken := registerUser(t, "Gate Teacher", "gateteacher@example.com", "teacher")
	outsiderToken := registerUser(t, "Outsider", "outsider@example.com", "student")

	status, body := doJSON(t, "POST", "/api/courses/", teacherToken, map[string]interface{}{
		"Title":  "Gated Course",
		"Public": false,
	})
	assert.Equal(t, fiber.StatusOK, status)
	course := body["course"].(map[string]interface{})
	courseID := uint(course["ID"].(float64))

	status, body = doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), teacherToken, map[string]interface{}{
		"title": "Gated Lesson",
	})
	assert.Equal(t, fiber.StatusOK, status)
	lesson := body["lesson"].(map[string]interface{})
	lessonID := uint(lesson["ID"].(float64))

	status, _ = doJSON(t, "POST", fmt.Sprintf("/api/lessons/%d/progress", lessonID), outsiderToken, map[string]interface{}{
		"watched_seconds": 10.0,
		"total_seconds":   100.0,
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	// A pending request on a private course is not enough either.
	status, body = doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), outsiderToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	enrollment := body["enrollment"].(map[string]interface{})
	assert.Equal(t, "pending", enrollment["Status"])

	status, _ = doJSON(t, "POST", fmt.Sprintf("/api/lessons/%d/progress", lessonID), outsiderToken, map[string]interface{}{
		"watched_seconds": 10.0,
		"total_seconds":   100.0,
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}
