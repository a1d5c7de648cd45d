package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adminapi/docs"
	"adminapi/internal/config"
	"adminapi/internal/http/middleware"
	"adminapi/internal/security"
	"adminapi/internal/service"
)

// Permission identifiers checked by RBAC.
const (
	PermUserAdd       = "sys:user:add"
	PermUserEdit      = "sys:user:edit"
	PermUserDel       = "sys:user:del"
	PermDeptAdd       = "sys:dept:add"
	PermDeptEdit      = "sys:dept:edit"
	PermDeptDel       = "sys:dept:del"
	PermRoleAdd       = "sys:role:add"
	PermRoleEdit      = "sys:role:edit"
	PermRoleMenuEdit  = "sys:role:menu:edit"
	PermRoleDel       = "sys:role:del"
	PermMenuAdd       = "sys:menu:add"
	PermMenuEdit      = "sys:menu:edit"
	PermMenuDel       = "sys:menu:del"
	PermMonitorServer = "sys:monitor:server"
	PermMonitorRedis  = "sys:monitor:redis"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Health  []Check
	Auth    service.AuthService
	Users   service.UserService
	Depts   service.DeptService
	Roles   service.RoleService
	Menus   service.MenuService
	RBAC    *security.RBAC
	Server  ServerInspector
	Redis   RedisInspector
	Counter middleware.WindowCounter
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
	Token    config.TokenConfig
	Limiter  config.LimiterConfig
	// DocsHost is the host:port advertised by the swagger document. Empty
	// leaves it to the browser.
	DocsHost string
}

// RegisterRoutes attaches every HTTP route to app and fails when two routes
// share a name.
func RegisterRoutes(app *fiber.App, d Deps) error {
	app.Get("/health", HealthCheck(d.Health...)).Name("health")
	app.Get("/healthz", LivenessProbe()).Name("healthz")
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))).Name("metrics")
	}
	docs.SwaggerInfo.Host = d.DocsHost
	app.Get("/swagger/*", swagger.HandlerDefault).Name("swagger")

	api := app.Group("/api/v1", middleware.JWTAuth(d.Auth, d.Token.ExcludePaths))
	perm := func(p string) fiber.Handler { return middleware.RequirePerm(d.RBAC, p) }

	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(d.Counter, d.Limiter), Login(d.Auth, d.Users)).Name("auth.login")
	auth.Post("/logout", Logout(d.Auth)).Name("auth.logout")
	auth.Post("/token/refresh", RefreshToken(d.Auth)).Name("auth.token.refresh")

	users := api.Group("/sys/users")
	users.Get("/me", Me(d.Users)).Name("users.me")
	users.Put("/me/password", ChangePassword(d.Users)).Name("users.me.password")
	users.Put("/me/avatar", UploadAvatar(d.Users)).Name("users.me.avatar")
	users.Get("/", perm(""), ListUsers(d.Users)).Name("users.list")
	users.Post("/", perm(PermUserAdd), CreateUser(d.Users)).Name("users.create")
	users.Get("/:pk", perm(""), GetUser(d.Users)).Name("users.get")
	users.Put("/:pk", perm(PermUserEdit), UpdateUser(d.Users)).Name("users.update")
	users.Put("/:pk/roles", perm(PermUserEdit), UpdateUserRoles(d.Users)).Name("users.roles")
	users.Put("/:pk/password", middleware.SuperuserOnly(), ResetPassword(d.Users)).Name("users.password")
	users.Put("/:pk/permissions/:type", perm(PermUserEdit), TogglePermission(d.Users)).Name("users.permission")
	users.Delete("/:pk", perm(PermUserDel), DeleteUser(d.Users)).Name("users.delete")

	depts := api.Group("/sys/depts")
	depts.Get("/", perm(""), DeptTree(d.Depts)).Name("depts.tree")
	depts.Get("/:pk", perm(""), GetDept(d.Depts)).Name("depts.get")
	depts.Post("/", perm(PermDeptAdd), CreateDept(d.Depts)).Name("depts.create")
	depts.Put("/:pk", perm(PermDeptEdit), UpdateDept(d.Depts)).Name("depts.update")
	depts.Delete("/:pk", perm(PermDeptDel), DeleteDept(d.Depts)).Name("depts.delete")

	roles := api.Group("/sys/roles")
	roles.Get("/all", perm(""), AllRoles(d.Roles)).Name("roles.all")
	roles.Get("/", perm(""), ListRoles(d.Roles)).Name("roles.list")
	roles.Get("/:pk", perm(""), GetRole(d.Roles)).Name("roles.get")
	roles.Post("/", perm(PermRoleAdd), CreateRole(d.Roles)).Name("roles.create")
	roles.Put("/:pk", perm(PermRoleEdit), UpdateRole(d.Roles)).Name("roles.update")
	roles.Put("/:pk/menus", perm(PermRoleMenuEdit), UpdateRoleMenus(d.Roles)).Name("roles.menus")
	roles.Delete("/", perm(PermRoleDel), DeleteRoles(d.Roles)).Name("roles.delete")

	menus := api.Group("/sys/menus")
	menus.Get("/sidebar", Sidebar(d.Menus)).Name("menus.sidebar")
	menus.Get("/", perm(""), MenuTree(d.Menus)).Name("menus.tree")
	menus.Get("/:pk", perm(""), GetMenu(d.Menus)).Name("menus.get")
	menus.Post("/", perm(PermMenuAdd), CreateMenu(d.Menus)).Name("menus.create")
	menus.Put("/:pk", perm(PermMenuEdit), UpdateMenu(d.Menus)).Name("menus.update")
	menus.Delete("/:pk", perm(PermMenuDel), DeleteMenu(d.Menus)).Name("menus.delete")

	monitors := api.Group("/monitors")
	monitors.Get("/server", perm(PermMonitorServer), ServerMonitor(d.Server)).Name("monitors.server")
	monitors.Get("/redis", perm(PermMonitorRedis), RedisMonitor(d.Redis)).Name("monitors.redis")

	return EnsureUniqueRouteNames(app)
}

// EnsureUniqueRouteNames fails when a route has no name or shares its name
// with a route on another path or method. HEAD routes mirror GET and are skipped.
func EnsureUniqueRouteNames(app *fiber.App) error {
	owners := make(map[string][]string)
	var unnamed []string
	for _, r := range app.GetRoutes(true) {
		if r.Method == fiber.MethodHead {
			continue
		}
		id := r.Method + " " + r.Path
		if r.Name == "" {
			unnamed = append(unnamed, id)
			continue
		}
		owners[r.Name] = append(owners[r.Name], id)
	}

	var problems []string
	for name, ids := range owners {
		if len(ids) > 1 {
			problems = append(problems, fmt.Sprintf("%q used by %s", name, strings.Join(ids, ", ")))
		}
	}
	if len(unnamed) > 0 {
		problems = append(problems, "unnamed routes: "+strings.Join(unnamed, ", "))
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("duplicate or missing route names: %s", strings.Join(problems, "; "))
}
