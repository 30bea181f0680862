package main

import (
	"time"

	"github.com/repartia/api/internal/config"
	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	tenant := seedTenant(stdLog.Printf, "Demo Distribution")

	users := []models.User{
		{TenantID: tenant.ID, Username: "admin", DisplayName: "Admin", IsAdmin: true, CanSell: true, CanDeliver: true},
		{TenantID: tenant.ID, Username: "seller", DisplayName: "Seller", CanSell: true},
		{TenantID: tenant.ID, Username: "courier", DisplayName: "Courier", CanDeliver: true},
		{TenantID: tenant.ID, Username: "field", DisplayName: "Field Rep", CanSell: true, CanDeliver: true},
	}
	for i := range users {
		seedUser(stdLog.Printf, &users[i], "demo1234")
	}

	discountUntil := time.Now().AddDate(0, 0, 14)
	products := []models.Product{
		{
			TenantID:  tenant.ID,
			Name:      "Mineral Water 1.5L",
			BasePrice: models.NewMoneyFromDecimal(decimal.RequireFromString("1.50")),
			IsActive:  true,
			Tiers: []models.PackTier{
				{Quantity: 6, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("8.00"))},
				{Quantity: 12, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("15.00"))},
			},
		},
		{
			TenantID:          tenant.ID,
			Name:              "Lager Beer 330ml",
			BasePrice:         models.NewMoneyFromDecimal(decimal.RequireFromString("2.20")),
			DiscountPercent:   decimal.NewFromInt(10),
			DiscountExpiresAt: &discountUntil,
			IsActive:          true,
			Tiers: []models.PackTier{
				{Quantity: 24, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("45.00"))},
			},
		},
		{
			TenantID:           tenant.ID,
			Name:               "Cola 2L",
			BasePrice:          models.NewMoneyFromDecimal(decimal.RequireFromString("3.00")),
			DiscountPercent:    decimal.NewFromInt(5),
			DiscountIndefinite: true,
			IsActive:           true,
		},
	}
	for i := range products {
		seedProduct(stdLog.Printf, &products[i])
	}

	clients := []models.Client{
		{TenantID: tenant.ID, Name: "Corner Shop", Address: "12 Main St", Phone: "555-0101",
			Debt: models.NewMoneyFromDecimal(decimal.Zero), DiscountPercent: decimal.NewFromInt(5)},
		{TenantID: tenant.ID, Name: "Plaza Market", Address: "4 Plaza Ave", Phone: "555-0102",
			Debt: models.NewMoneyFromDecimal(decimal.Zero)},
		{TenantID: tenant.ID, Name: "Riverside Kiosk", Address: "88 River Rd", Phone: "555-0103",
			Debt: models.NewMoneyFromDecimal(decimal.Zero)},
	}
	for i := range clients {
		seedClient(stdLog.Printf, &clients[i])
	}

	var seller models.User
	if err := models.DB.Where("username = ?", "seller").First(&seller).Error; err == nil {
		for i, client := range clients {
			route := models.ScheduledRoute{
				TenantID:   tenant.ID,
				SellerID:   seller.ID,
				ClientID:   client.ID,
				Weekday:    int(time.Monday),
				VisitOrder: i + 1,
				IsActive:   true,
			}
			seedRoute(stdLog.Printf, &route)
		}
	}

	if len(clients) > 0 && len(products) > 0 {
		special := models.SpecialPrice{
			TenantID:  tenant.ID,
			ClientID:  clients[0].ID,
			ProductID: products[0].ID,
			UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("1.20")),
		}
		seedSpecialPrice(stdLog.Printf, &special)
	}

	stdLog.Printf("Seed finished")
}

type logf func(format string, v ...interface{})

func seedTenant(log logf, name string) *models.Tenant {
	var tenant models.Tenant
	if err := models.DB.Where("name = ?", name).First(&tenant).Error; err == nil {
		log("Tenant already exists: %s", name)
		return &tenant
	}
	tenant = models.Tenant{Name: name, IsActive: true}
	if err := models.DB.Create(&tenant).Error; err != nil {
		log("Failed to create tenant %s: %v", name, err)
	} else {
		log("Created tenant: %s", name)
	}
	return &tenant
}

func seedUser(log logf, user *models.User, password string) {
	var existing models.User
	if err := models.DB.Where("username = ?", user.Username).First(&existing).Error; err == nil {
		log("User already exists: %s", user.Username)
		*user = existing
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log("Failed to hash password for %s: %v", user.Username, err)
		return
	}
	user.PasswordHash = string(hash)
	user.Status = constants.UserStatusActive
	if err := models.DB.Create(user).Error; err != nil {
		log("Failed to create user %s: %v", user.Username, err)
	} else {
		log("Created user: %s", user.Username)
	}
}

func seedProduct(log logf, product *models.Product) {
	var existing models.Product
	if err := models.DB.Where("tenant_id = ? AND name = ?", product.TenantID, product.Name).
		First(&existing).Error; err == nil {
		log("Product already exists: %s", product.Name)
		*product = existing
		return
	}
	if err := models.DB.Create(product).Error; err != nil {
		log("Failed to create product %s: %v", product.Name, err)
	} else {
		log("Created product: %s", product.Name)
	}
}

func seedClient(log logf, client *models.Client) {
	var existing models.Client
	if err := models.DB.Where("tenant_id = ? AND name = ?", client.TenantID, client.Name).
		First(&existing).Error; err == nil {
		log("Client already exists: %s", client.Name)
		*client = existing
		return
	}
	if err := models.DB.Create(client).Error; err != nil {
		log("Failed to create client %s: %v", client.Name, err)
	} else {
		log("Created client: %s", client.Name)
	}
}

func seedRoute(log logf, route *models.ScheduledRoute) {
	var existing models.ScheduledRoute
	if err := models.DB.Where("tenant_id = ? AND seller_id = ? AND client_id = ? AND weekday = ?",
		route.TenantID, route.SellerID, route.ClientID, route.Weekday).
		First(&existing).Error; err == nil {
		log("Route already exists: seller %d -> client %d", route.SellerID, route.ClientID)
		return
	}
	if err := models.DB.Create(route).Error; err != nil {
		log("Failed to create route: %v", err)
	} else {
		log("Created route: seller %d -> client %d (weekday %d)", route.SellerID, route.ClientID, route.Weekday)
	}
}

func seedSpecialPrice(log logf, price *models.SpecialPrice) {
	var existing models.SpecialPrice
	if err := models.DB.Where("client_id = ? AND product_id = ?", price.ClientID, price.ProductID).
		First(&existing).Error; err == nil {
		log("Special price already exists: client %d / product %d", price.ClientID, price.ProductID)
		return
	}
	if err := models.DB.Create(price).Error; err != nil {
		log("Failed to create special price: %v", err)
	} else {
		log("Created special price: client %d / product %d", price.ClientID, price.ProductID)
	}
}
