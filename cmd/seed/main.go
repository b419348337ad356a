package main

import (
	"fmt"

	"github.com/krishimart/krishimart/internal/config"
	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/logger"
	"github.com/krishimart/krishimart/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
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

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "Vegetables", Slug: "vegetables", Description: "Farm-fresh seasonal vegetables", SortOrder: 10, IsActive: true},
		{Name: "Fruits", Slug: "fruits", Description: "Orchard fruits delivered ripe", SortOrder: 20, IsActive: true},
		{Name: "Grains & Pulses", Slug: "grains-pulses", Description: "Wheat, rice, dal and millets", SortOrder: 30, IsActive: true},
		{Name: "Dairy", Slug: "dairy", Description: "Milk, ghee, paneer and curd", SortOrder: 40, IsActive: true},
		{Name: "Spices", Slug: "spices", Description: "Whole and ground spices from source", SortOrder: 50, IsActive: true},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加演示账号（供应商 + 顾客）
	users := []struct {
		Email       string
		Password    string
		DisplayName string
		Phone       string
		Role        string
	}{
		{Email: "ramesh.farms@example.com", Password: "Supplier@123", DisplayName: "Ramesh Organic Farms", Phone: "9812340001", Role: constants.UserRoleSupplier},
		{Email: "sunrise.dairy@example.com", Password: "Supplier@123", DisplayName: "Sunrise Dairy Co-op", Phone: "9812340002", Role: constants.UserRoleSupplier},
		{Email: "priya@example.com", Password: "Customer@123", DisplayName: "Priya", Phone: "9812340101", Role: constants.UserRoleCustomer},
		{Email: "arjun@example.com", Password: "Customer@123", DisplayName: "Arjun", Phone: "9812340102", Role: constants.UserRoleCustomer},
	}

	supplierIDs := map[string]uint{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			supplierIDs[u.Email] = existing.ID
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", u.Email, err)
			continue
		}
		user := models.User{
			Email:        u.Email,
			PasswordHash: string(hash),
			DisplayName:  u.DisplayName,
			Phone:        u.Phone,
			Role:         u.Role,
			Locale:       "en-IN",
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
			continue
		}
		supplierIDs[u.Email] = user.ID
		stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
	}

	rameshID := supplierIDs["ramesh.farms@example.com"]
	sunriseID := supplierIDs["sunrise.dairy@example.com"]

	// 添加商品
	discount := func(v float64) *models.Money {
		m := models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
		return &m
	}
	products := []models.Product{
		{
			CategoryID:  categoryIDs["vegetables"],
			SupplierID:  rameshID,
			Slug:        "organic-tomatoes",
			Name:        "Organic Tomatoes",
			Description: "Vine-ripened desi tomatoes grown without synthetic pesticides.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(48)),
			Unit:        constants.ProductUnitKG,
			Stock:       120,
			IsOrganic:   true,
			Origin:      "Nashik, Maharashtra",
			Tags:        models.StringArray([]string{"organic", "salad", "fresh"}),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			CategoryID:    categoryIDs["vegetables"],
			SupplierID:    rameshID,
			Slug:          "spinach-bunch",
			Name:          "Spinach Bunch",
			Description:   "Tender palak harvested the same morning.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(25)),
			DiscountPrice: discount(20),
			Unit:          constants.ProductUnitPiece,
			Stock:         80,
			IsOrganic:     true,
			Origin:        "Pune, Maharashtra",
			Tags:          models.StringArray([]string{"leafy", "iron-rich"}),
			IsActive:      true,
			SortOrder:     20,
		},
		{
			CategoryID:  categoryIDs["fruits"],
			SupplierID:  rameshID,
			Slug:        "alphonso-mangoes",
			Name:        "Alphonso Mangoes",
			Description: "GI-tagged Ratnagiri hapus, naturally ripened.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(650)),
			Unit:        constants.ProductUnitDozen,
			Stock:       40,
			IsOrganic:   false,
			Origin:      "Ratnagiri, Maharashtra",
			Tags:        models.StringArray([]string{"seasonal", "premium"}),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			CategoryID:    categoryIDs["fruits"],
			SupplierID:    rameshID,
			Slug:          "bananas-robusta",
			Name:          "Robusta Bananas",
			Description:   "Field-ripened robusta bananas, ideal for daily use.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(60)),
			DiscountPrice: discount(52),
			Unit:          constants.ProductUnitDozen,
			Stock:         150,
			Origin:        "Jalgaon, Maharashtra",
			Tags:          models.StringArray([]string{"everyday", "energy"}),
			IsActive:      true,
			SortOrder:     20,
		},
		{
			CategoryID:  categoryIDs["grains-pulses"],
			SupplierID:  rameshID,
			Slug:        "sonamasuri-rice",
			Name:        "Sona Masuri Rice",
			Description: "Lightweight aromatic rice, aged 12 months.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(5400)),
			Unit:        constants.ProductUnitQuintal,
			Stock:       12,
			Origin:      "Raichur, Karnataka",
			Tags:        models.StringArray([]string{"staple", "aged"}),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			CategoryID:  categoryIDs["grains-pulses"],
			SupplierID:  rameshID,
			Slug:        "toor-dal",
			Name:        "Toor Dal",
			Description: "Unpolished toor dal milled in small batches.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(145)),
			Unit:        constants.ProductUnitKG,
			Stock:       200,
			IsOrganic:   true,
			Origin:      "Latur, Maharashtra",
			Tags:        models.StringArray([]string{"protein", "unpolished"}),
			IsActive:    true,
			SortOrder:   20,
		},
		{
			CategoryID:  categoryIDs["dairy"],
			SupplierID:  sunriseID,
			Slug:        "a2-cow-milk",
			Name:        "A2 Cow Milk",
			Description: "Gir cow milk delivered chilled in glass bottles.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(90)),
			Unit:        constants.ProductUnitLitre,
			Stock:       60,
			IsOrganic:   true,
			Origin:      "Anand, Gujarat",
			Tags:        models.StringArray([]string{"a2", "chilled"}),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			CategoryID:    categoryIDs["dairy"],
			SupplierID:    sunriseID,
			Slug:          "desi-ghee",
			Name:          "Desi Ghee",
			Description:   "Bilona-churned ghee from grass-fed cows.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(850)),
			DiscountPrice: discount(799),
			Unit:          constants.ProductUnitLitre,
			Stock:         35,
			Origin:        "Anand, Gujarat",
			Tags:          models.StringArray([]string{"bilona", "traditional"}),
			IsActive:      true,
			SortOrder:     20,
		},
		{
			CategoryID:  categoryIDs["spices"],
			SupplierID:  rameshID,
			Slug:        "lakadong-turmeric",
			Name:        "Lakadong Turmeric Powder",
			Description: "High-curcumin turmeric ground from Lakadong roots.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(380)),
			Unit:        constants.ProductUnitKG,
			Stock:       50,
			IsOrganic:   true,
			Origin:      "Jaintia Hills, Meghalaya",
			Tags:        models.StringArray([]string{"curcumin", "single-origin"}),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			CategoryID:  categoryIDs["spices"],
			SupplierID:  rameshID,
			Slug:        "byadgi-chilli",
			Name:        "Byadgi Dry Red Chilli",
			Description: "Deep red, mildly hot chillies prized for colour.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(320)),
			Unit:        constants.ProductUnitKG,
			Stock:       0,
			Origin:      "Byadgi, Karnataka",
			Tags:        models.StringArray([]string{"colour", "sun-dried"}),
			IsActive:    true,
			SortOrder:   20,
		},
	}

	for _, product := range products {
		if product.CategoryID == 0 || product.SupplierID == 0 {
			stdLog.Printf("Skipping product %s: missing category or supplier", product.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 更新店铺配置
	settings := map[string]string{
		constants.SettingFieldSiteName:              "KrishiMart",
		constants.SettingFieldSiteCurrency:          constants.SiteCurrencyDefault,
		constants.SettingFieldTaxRatePercent:        "5",
		constants.SettingFieldFreeShippingThreshold: "500",
		constants.SettingFieldShippingFlatFee:       "40",
		constants.SettingFieldSupportEmail:          "support@krishimart.example.com",
	}
	for key, value := range settings {
		var setting models.Setting
		if err := models.DB.Where("key = ?", key).First(&setting).Error; err != nil {
			setting = models.Setting{Key: key, Value: value}
			if err := models.DB.Create(&setting).Error; err != nil {
				stdLog.Printf("Failed to create setting %s: %v", key, err)
			} else {
				stdLog.Printf("Created setting: %s", key)
			}
			continue
		}
		setting.Value = value
		if err := models.DB.Save(&setting).Error; err != nil {
			stdLog.Printf("Failed to update setting %s: %v", key, err)
		} else {
			stdLog.Printf("Updated setting: %s", key)
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 5 Categories")
	fmt.Println("- 2 Suppliers, 2 Customers")
	fmt.Println("- 10 Products (incl. one out-of-stock)")
	fmt.Println("- Shop settings")
}
