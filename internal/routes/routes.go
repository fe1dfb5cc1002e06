package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/pimpraxis/therapy-scheduler/internal/audit"
	"github.com/pimpraxis/therapy-scheduler/internal/config"
	"github.com/pimpraxis/therapy-scheduler/internal/db"
	"github.com/pimpraxis/therapy-scheduler/internal/handlers"
	infraRepo "github.com/pimpraxis/therapy-scheduler/internal/infra/repository"
	"github.com/pimpraxis/therapy-scheduler/internal/lock"
	"github.com/pimpraxis/therapy-scheduler/internal/media"
	"github.com/pimpraxis/therapy-scheduler/internal/middleware"
	"github.com/pimpraxis/therapy-scheduler/internal/notify"
	"github.com/pimpraxis/therapy-scheduler/internal/store"
	ucAppointment "github.com/pimpraxis/therapy-scheduler/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, s *store.Store, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentDynamoRepository(s)

	auditDispatcher := audit.NewDispatcher(s)

	mediaService := media.NewService(db.NewS3Client(), cfg.MediaBucket, cfg.CDNDomain)

	mailer := notify.NewSendGridMailer(cfg)

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.RedisAddr != "" {
		locker = lock.NewRedisLocker(
			redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
			10*time.Second,
		)
	}

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreate(
		appointmentRepo,
		auditDispatcher,
	)

	requestBookingUC := ucAppointment.NewRequestBooking(
		appointmentRepo,
		locker,
		auditDispatcher,
	)

	approveBookingUC := ucAppointment.NewApproveBooking(
		appointmentRepo,
		mailer,
		auditDispatcher,
	)

	assignBookingUC := ucAppointment.NewAssignBooking(
		appointmentRepo,
		locker,
		mailer,
		auditDispatcher,
	)

	requestCancellationUC := ucAppointment.NewRequestCancellation(
		appointmentRepo,
		auditDispatcher,
	)

	approveCancellationUC := ucAppointment.NewApproveCancellation(
		appointmentRepo,
		mailer,
		auditDispatcher,
	)

	joinGroupUC := ucAppointment.NewJoinGroup(
		appointmentRepo,
		locker,
		auditDispatcher,
	)

	leaveGroupUC := ucAppointment.NewLeaveGroup(
		appointmentRepo,
		locker,
		auditDispatcher,
	)

	participantsUC := ucAppointment.NewListParticipants(appointmentRepo)

	listByUserUC := ucAppointment.NewListByUser(appointmentRepo)

	deleteAppointmentUC := ucAppointment.NewDelete(
		appointmentRepo,
		auditDispatcher,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		createAppointmentUC,
		requestBookingUC,
		approveBookingUC,
		assignBookingUC,
		requestCancellationUC,
		approveCancellationUC,
		joinGroupUC,
		leaveGroupUC,
		participantsUC,
		listByUserUC,
		deleteAppointmentUC,
	)

	therapyHandler := handlers.NewTherapyHandler(s, mediaService, auditDispatcher)
	adviceHandler := handlers.NewAdviceHandler(s, mediaService, auditDispatcher)
	userHandler := handlers.NewUserHandler(s, mediaService, mailer, auditDispatcher, cfg)
	mediaHandler := handlers.NewMediaHandler(mediaService)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.POST("/users/signup", userHandler.Signup)
		api.POST("/users/complete-registration", userHandler.CompleteRegistration)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// THERAPIES
			// ------------------------------
			secured.GET("/therapies", therapyHandler.List)
			secured.GET("/therapies/:therapyId", therapyHandler.Get)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/therapies/:therapyId/appointments", appointmentHandler.ListByTherapy)
			secured.GET("/therapies/:therapyId/appointments/:appointmentId", appointmentHandler.Get)
			secured.GET("/therapies/:therapyId/appointments/:appointmentId/participants", appointmentHandler.Participants)

			secured.POST("/therapies/:therapyId/appointments/:appointmentId/actions/request", appointmentHandler.Request)
			secured.POST("/therapies/:therapyId/appointments/:appointmentId/actions/join-group", appointmentHandler.JoinGroup)
			secured.POST("/therapies/:therapyId/appointments/:appointmentId/actions/leave-group", appointmentHandler.LeaveGroup)

			secured.POST("/appointments/:appointmentId/actions/request-cancellation", appointmentHandler.RequestCancellation)

			secured.GET("/users/:userId/appointments", appointmentHandler.ListByUser)

			// ------------------------------
			// ADVICES
			// ------------------------------
			secured.GET("/advices", adviceHandler.List)
			secured.GET("/advices/:adviceId", adviceHandler.Get)
			secured.GET("/therapies/:therapyId/advices", adviceHandler.ListByTherapy)

			// ------------------------------
			// PROFILE
			// ------------------------------
			secured.GET("/users/:userId", userHandler.Get)

			// ------------------------------
			// MEDIA
			// ------------------------------
			secured.POST("/media/upload-url", mediaHandler.UploadURL)

			// ------------------------------
			// 🔐 ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/therapies", therapyHandler.Create)
				admin.PATCH("/therapies/:therapyId", therapyHandler.Update)
				admin.DELETE("/therapies/:therapyId", therapyHandler.Delete)

				admin.GET("/appointments", appointmentHandler.ListAll)
				admin.POST("/therapies/:therapyId/appointments", appointmentHandler.Create)
				admin.PATCH("/therapies/:therapyId/appointments/:appointmentId", appointmentHandler.Update)
				admin.DELETE("/therapies/:therapyId/appointments/:appointmentId", appointmentHandler.Delete)

				admin.POST("/therapies/:therapyId/appointments/:appointmentId/actions/approve", appointmentHandler.Approve)
				admin.POST("/appointments/:appointmentId/actions/assign", appointmentHandler.Assign)
				admin.POST("/appointments/:appointmentId/actions/approve-cancellation", appointmentHandler.ApproveCancellation)

				admin.POST("/advices", adviceHandler.Create)
				admin.PATCH("/advices/:adviceId", adviceHandler.Update)
				admin.DELETE("/advices/:adviceId", adviceHandler.Delete)

				admin.GET("/users", userHandler.List)
				admin.POST("/users/:userId/actions/approve", userHandler.Approve)
				admin.PATCH("/users/:userId", userHandler.Update)
				admin.DELETE("/users/:userId", userHandler.Delete)
			}
		}
	}
}
