package routes

import (
	"eadsystem/backend/config"
	"eadsystem/backend/controllers"
	"eadsystem/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/stats", authMiddleware, userController.GetUserStats)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Post("/", coursesController.CreateCourse)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Put("/:id", coursesController.UpdateCourse)
	courses.Delete("/:id", coursesController.DeleteCourse)
	courses.Post("/:id/lessons", coursesController.AddLesson)
	courses.Put("/:id/lessons/:lessonId", coursesController.UpdateLesson)
	courses.Delete("/:id/lessons/:lessonId", coursesController.DeleteLesson)
	courses.Post("/:id/lessons/:lessonId/materials", coursesController.AddMaterial)

	// Enrollment routes
	enrollmentController := controllers.NewEnrollmentController(db, cfg)
	app.Post("/api/courses/:id/enroll", authMiddleware, enrollmentController.RequestEnrollment)
	app.Get("/api/courses/:id/enrollments/pending", authMiddleware, enrollmentController.GetPendingByCourse)
	app.Post("/api/enrollments/:id/approve", authMiddleware, enrollmentController.ApproveEnrollment)
	app.Post("/api/enrollments/:id/reject", authMiddleware, enrollmentController.RejectEnrollment)
	app.Get("/api/enrollments/my", authMiddleware, enrollmentController.GetMyEnrollments)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Post("/api/lessons/:id/progress", authMiddleware, progressController.UpdateLessonProgress)
	app.Post("/api/lessons/:id/complete", authMiddleware, progressController.CompleteLesson)
	app.Get("/api/courses/:id/progress", authMiddleware, progressController.GetCourseProgress)
	app.Post("/api/courses/:id/self-rating", authMiddleware, progressController.RateCourse)

	// Engagement routes
	engagementController := controllers.NewEngagementController(db, cfg)
	app.Post("/api/lessons/:id/comments", authMiddleware, engagementController.CreateComment)
	app.Get("/api/lessons/:id/comments", authMiddleware, engagementController.GetComments)
	app.Post("/api/comments/:id/replies", authMiddleware, engagementController.ReplyToComment)
	app.Post("/api/comments/:id/like", authMiddleware, engagementController.ToggleCommentLike)
	app.Post("/api/comments/:id/replies/:replyId/like", authMiddleware, engagementController.ToggleReplyLike)
	app.Post("/api/courses/:id/ratings", authMiddleware, engagementController.RateCourse)
	app.Get("/api/courses/:id/ratings", authMiddleware, engagementController.GetRatings)
	app.Post("/api/ratings/:id/like", authMiddleware, engagementController.ToggleRatingLike)

	// Chat routes
	chatController := controllers.NewChatController(db, cfg)
	app.Get("/api/courses/:id/chat", authMiddleware, chatController.GetCourseChat)
	app.Post("/api/courses/:id/chat/messages", authMiddleware, chatController.SendMessage)
	app.Put("/api/chat/messages/:id", authMiddleware, chatController.EditMessage)
	app.Delete("/api/chat/messages/:id", authMiddleware, chatController.DeleteMessage)

	// Notification routes
	notificationsController := controllers.NewNotificationsController(db, cfg)
	app.Get("/api/notifications", authMiddleware, notificationsController.GetNotifications)
	app.Post("/api/notifications/:id/read", authMiddleware, notificationsController.MarkAsRead)

	// File routes
	filesController := controllers.NewFilesController(db, cfg)
	app.Post("/api/files", authMiddleware, filesController.Upload)
	app.Get("/api/files/usage", authMiddleware, adminMiddleware, filesController.GetStorageUsage)
	app.Get("/api/files/:id", authMiddleware, filesController.Download)
	app.Delete("/api/files/:id", authMiddleware, adminMiddleware, filesController.Delete)

	// Search routes
	searchController := controllers.NewSearchController(db, cfg)
	app.Get("/api/search", authMiddleware, searchController.Search)

	// Stats routes
	statsController := controllers.NewStatsController(db, cfg)
	app.Get("/api/stats/platform", authMiddleware, statsController.GetPlatformStats)

	// Admin routes
	app.Get("/api/admin/users", authMiddleware, adminMiddleware, userController.ListUsers)
	app.Delete("/api/admin/users/:id", authMiddleware, adminMiddleware, userController.DeleteUser)
}
