package presenter

import (
	"github.com/kiritara/resort-admin/config"
	dashboardhandler "github.com/kiritara/resort-admin/internal/handler/dashboard"
	exporthandler "github.com/kiritara/resort-admin/internal/handler/export"
	galleryhandler "github.com/kiritara/resort-admin/internal/handler/gallery"
	installmenthandler "github.com/kiritara/resort-admin/internal/handler/installment"
	investorhandler "github.com/kiritara/resort-admin/internal/handler/investor"
	planhandler "github.com/kiritara/resort-admin/internal/handler/plan"
	privatehandler "github.com/kiritara/resort-admin/internal/handler/private"
	"github.com/kiritara/resort-admin/internal/repository"
	dashboardsrv "github.com/kiritara/resort-admin/internal/service/dashboard"
	exportsrv "github.com/kiritara/resort-admin/internal/service/export"
	installmentsrv "github.com/kiritara/resort-admin/internal/service/installment"
	investorsrv "github.com/kiritara/resort-admin/internal/service/investor"
	mediasrv "github.com/kiritara/resort-admin/internal/service/media"
	plansrv "github.com/kiritara/resort-admin/internal/service/plan"
	privatesrv "github.com/kiritara/resort-admin/internal/service/private"
	"github.com/kiritara/resort-admin/pkg/telemetry"

	"github.com/cloudinary/cloudinary-go/v2"
	"gorm.io/gorm"
)

type Presenter struct {
	PrivatePresenter     *privatehandler.PrivateHandler
	PlanPresenter        *planhandler.PlanHandler
	InvestorPresenter    *investorhandler.InvestorHandler
	InstallmentPresenter *installmenthandler.InstallmentHandler
	DashboardPresenter   *dashboardhandler.DashboardHandler
	ExportPresenter      *exporthandler.ExportHandler
	GalleryPresenter     *galleryhandler.GalleryHandler
}

func NewPresenter(
	db *gorm.DB,
	cld *cloudinary.Cloudinary,
	tel *telemetry.OpenTelemetry,
	cfg *config.Config,
) Presenter {
	// Repository
	planRepository := repository.NewPlanRepository(db)
	investorRepository := repository.NewInvestorRepository(db)
	installmentRepository := repository.NewInstallmentRepository(db)
	paymentRepository := repository.NewPaymentRepository(db)
	adminRepository := repository.NewAdminRepository(db)
	galleryRepository := repository.NewGalleryRepository(db)

	// Service
	privateServiceMeter := tel.MeterProvider.Meter("private-service-meter")
	privateServiceTracer := tel.TracerProvider.Tracer("private-service-trace")
	privateService := privatesrv.NewPrivateService(
		adminRepository,
		cfg.JWT_SECRET_KEY,
		privateServiceMeter,
		privateServiceTracer,
		tel.Log,
	)

	planServiceMeter := tel.MeterProvider.Meter("plan-service-meter")
	planServiceTracer := tel.TracerProvider.Tracer("plan-service-trace")
	planService := plansrv.NewPlanService(
		planRepository,
		planServiceMeter,
		planServiceTracer,
		tel.Log,
	)

	investorServiceMeter := tel.MeterProvider.Meter("investor-service-meter")
	investorServiceTracer := tel.TracerProvider.Tracer("investor-service-trace")
	investorService := investorsrv.NewInvestorService(
		db,
		planRepository,
		investorRepository,
		installmentRepository,
		investorServiceMeter,
		investorServiceTracer,
		tel.Log,
	)

	installmentServiceMeter := tel.MeterProvider.Meter("installment-service-meter")
	installmentServiceTracer := tel.TracerProvider.Tracer("installment-service-trace")
	installmentService := installmentsrv.NewInstallmentService(
		db,
		investorRepository,
		installmentRepository,
		paymentRepository,
		installmentServiceMeter,
		installmentServiceTracer,
		tel.Log,
	)

	dashboardServiceMeter := tel.MeterProvider.Meter("dashboard-service-meter")
	dashboardServiceTracer := tel.TracerProvider.Tracer("dashboard-service-trace")
	dashboardService := dashboardsrv.NewDashboardService(
		planRepository,
		investorRepository,
		installmentRepository,
		dashboardServiceMeter,
		dashboardServiceTracer,
		tel.Log,
	)

	exportServiceMeter := tel.MeterProvider.Meter("export-service-meter")
	exportServiceTracer := tel.TracerProvider.Tracer("export-service-trace")
	exportService := exportsrv.NewExportService(
		db,
		planRepository,
		investorRepository,
		installmentRepository,
		paymentRepository,
		exportServiceMeter,
		exportServiceTracer,
		tel.Log,
	)

	mediaServiceMeter := tel.MeterProvider.Meter("media-service-meter")
	mediaServiceTracer := tel.TracerProvider.Tracer("media-service-trace")
	mediaService := mediasrv.NewMediaService(
		cld,
		galleryRepository,
		mediaServiceMeter,
		mediaServiceTracer,
		tel.Log,
	)

	// Handler
	privateHandlerMeter := tel.MeterProvider.Meter("private-handler-meter")
	privateHandlerTracer := tel.TracerProvider.Tracer("private-handler-trace")
	privateHandler := privatehandler.NewPrivateHandler(
		privateService,
		cfg.DEV_MODE,
		privateHandlerMeter,
		privateHandlerTracer,
		tel.Log,
	)

	planHandlerMeter := tel.MeterProvider.Meter("plan-handler-meter")
	planHandlerTracer := tel.TracerProvider.Tracer("plan-handler-trace")
	planHandler := planhandler.NewPlanHandler(
		planService,
		planHandlerMeter,
		planHandlerTracer,
		tel.Log,
	)

	investorHandlerMeter := tel.MeterProvider.Meter("investor-handler-meter")
	investorHandlerTracer := tel.TracerProvider.Tracer("investor-handler-trace")
	investorHandler := investorhandler.NewInvestorHandler(
		investorService,
		investorHandlerMeter,
		investorHandlerTracer,
		tel.Log,
	)

	installmentHandlerMeter := tel.MeterProvider.Meter("installment-handler-meter")
	installmentHandlerTracer := tel.TracerProvider.Tracer("installment-handler-trace")
	installmentHandler := installmenthandler.NewInstallmentHandler(
		installmentService,
		installmentHandlerMeter,
		installmentHandlerTracer,
		tel.Log,
	)

	dashboardHandlerMeter := tel.MeterProvider.Meter("dashboard-handler-meter")
	dashboardHandlerTracer := tel.TracerProvider.Tracer("dashboard-handler-trace")
	dashboardHandler := dashboardhandler.NewDashboardHandler(
		dashboardService,
		dashboardHandlerMeter,
		dashboardHandlerTracer,
		tel.Log,
	)

	exportHandlerMeter := tel.MeterProvider.Meter("export-handler-meter")
	exportHandlerTracer := tel.TracerProvider.Tracer("export-handler-trace")
	exportHandler := exporthandler.NewExportHandler(
		exportService,
		exportHandlerMeter,
		exportHandlerTracer,
		tel.Log,
	)

	galleryHandlerMeter := tel.MeterProvider.Meter("gallery-handler-meter")
	galleryHandlerTracer := tel.TracerProvider.Tracer("gallery-handler-trace")
	galleryHandler := galleryhandler.NewGalleryHandler(
		mediaService,
		galleryHandlerMeter,
		galleryHandlerTracer,
		tel.Log,
	)

	return Presenter{
		PrivatePresenter:     privateHandler,
		PlanPresenter:        planHandler,
		InvestorPresenter:    investorHandler,
		InstallmentPresenter: installmentHandler,
		DashboardPresenter:   dashboardHandler,
		ExportPresenter:      exportHandler,
		GalleryPresenter:     galleryHandler,
	}
}
