package router

import (
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/config"
	"github.com/gastonr9/sublimo-app-sub000/internal/handler"
	"github.com/gastonr9/sublimo-app-sub000/internal/infra"
	"github.com/gastonr9/sublimo-app-sub000/internal/middleware"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"
	"github.com/gastonr9/sublimo-app-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, storage *infra.FSStorage) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	disenoRepo := repository.NewDisenoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(productoRepo, inventarioRepo, rdb)
	productoSvc := service.NewProductoService(productoRepo, inventarioRepo, movimientoStockRepo, catalogoSvc)
	disenoSvc := service.NewDisenoService(disenoRepo, storage)
	pedidoSvc := service.NewPedidoService(pedidoRepo, inventarioRepo, disenoRepo, movimientoStockRepo, catalogoSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	disenosH := handler.NewDisenosHandler(disenoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Diseño images served straight from object storage
	r.Static("/storage/disenos", storage.Dir())

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Storefront — no auth required
	r.GET("/v1/productos", catalogoH.ListarProductos)
	r.GET("/v1/productos/:id/talles", catalogoH.Talles)
	r.GET("/v1/productos/:id/colores", catalogoH.Colores)
	r.GET("/v1/disenos", disenosH.Seleccionables)
	r.POST("/v1/pedidos", pedidosH.Confirmar)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: master, empleado — declared per-endpoint
		v1.GET("/pedidos", middleware.RequireRole(model.RolMaster, model.RolEmpleado), pedidosH.Listar)
		v1.PUT("/pedidos/:id/estado", middleware.RequireRole(model.RolMaster, model.RolEmpleado), pedidosH.CambiarEstado)
		v1.DELETE("/pedidos/:id", middleware.RequireRole(model.RolMaster), pedidosH.Eliminar)

		// Product and inventory writes — master only
		prods := v1.Group("/productos", middleware.RequireRole(model.RolMaster))
		{
			prods.POST("", productosH.Crear)
			prods.GET("/:id", productosH.Obtener)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/:id/inventario", productosH.AgregarLinea)
		}
		inv := v1.Group("/inventario", middleware.RequireRole(model.RolMaster, model.RolEmpleado))
		{
			inv.PUT("/:lineaId", productosH.ActualizarLinea)
			inv.DELETE("/:lineaId", productosH.EliminarLinea)
			inv.PATCH("/:lineaId/stock", productosH.AjustarStock)
		}
		v1.GET("/movimientos", middleware.RequireRole(model.RolMaster, model.RolEmpleado), productosH.Movimientos)

		// Diseño administration
		dis := v1.Group("/disenos", middleware.RequireRole(model.RolMaster, model.RolEmpleado))
		{
			dis.GET("/todos", disenosH.ListarTodos)
			dis.POST("/imagen", disenosH.SubirImagen)
			dis.POST("", disenosH.Crear)
			dis.PUT("/:id", disenosH.Actualizar)
			dis.PATCH("/:id/quitar", disenosH.Quitar)
			dis.DELETE("/:id", disenosH.Eliminar)
		}
	}

	// User administration — legacy /api paths kept for the admin frontend
	api := r.Group("/api", jwtMW, middleware.RequireRole(model.RolMaster))
	{
		api.POST("/createUser", usuariosH.Crear)
		api.GET("/getUsers", usuariosH.Listar)
		api.PUT("/updateUser/:id", usuariosH.Actualizar)
		api.DELETE("/deleteUser/:id", usuariosH.Eliminar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
