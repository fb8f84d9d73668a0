package repo

import (
	"Trades/internal/model"
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword — пароль всех демо-пользователей.
const DemoPassword = "password"

type demoItem struct {
	owner    string
	title    string
	tier     model.ValueTier
	category model.Category
	pickup   string
}

var demoUsers = []struct{ id, login, name string }{
	{"user-a", "yael", "Yael"},
	{"user-b", "omer", "Omer"},
	{"user-c", "noa", "Noa"},
	{"user-d", "dan", "Dan"},
	{"user-e", "shira", "Shira"},
}

var demoItems = []demoItem{
	{"user-a", "Vintage Record Player", model.TierMid, model.CategoryMusic, "Ra'anana"},
	{"user-b", "Designer Leather Jacket", model.TierHigh, model.CategoryClothing, "Tel Aviv"},
	{"user-c", "Board Game Collection", model.TierLow, model.CategoryToys, "Herzliya"},
	{"user-d", "Mechanical Keyboard", model.TierMid, model.CategoryElectronics, "Ra'anana"},
	{"user-e", "Pottery Set (4 Mugs)", model.TierLow, model.CategoryHome, "Netanya"},
	{"user-a", "Standing Desk Lamp", model.TierLow, model.CategoryHome, "Ramat Gan"},
	{"user-b", "Vintage Denim Jacket", model.TierMid, model.CategoryClothing, "Tel Aviv"},
	{"user-c", "Yoga Mat + Block", model.TierLow, model.CategorySports, "Kfar Saba"},
	{"user-d", "Bluetooth Speaker", model.TierMid, model.CategoryElectronics, "Ra'anana"},
	{"user-e", "Cookbook Set (3)", model.TierLow, model.CategoryBooks, "Hod HaSharon"},
	{"user-a", "Acoustic Guitar", model.TierHigh, model.CategoryMusic, "Ra'anana"},
	{"user-b", "Oil Painting Landscape", model.TierHigh, model.CategoryArt, "Herzliya"},
}

// SeedDemo заполняет пустую БД демо-пользователями и предметами.
// Возвращает false, если пользователи уже есть и ничего не делалось.
func SeedDemo(ctx context.Context, db *gorm.DB) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	base := time.Now().UTC().Add(-time.Duration(len(demoItems)) * time.Hour)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range demoUsers {
			user := model.User{
				ID:          u.id,
				Login:       u.login,
				Password:    string(hash),
				DisplayName: u.name,
				AvatarURL:   "https://i.pravatar.cc/150?u=" + u.login,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		for i, d := range demoItems {
			id := fmt.Sprintf("item-%d", i+1)
			it := model.Item{
				ID:             id,
				OwnerID:        d.owner,
				Title:          d.title,
				Photos:         []string{"https://picsum.photos/seed/" + id + "/600/400"},
				ValueTier:      d.tier,
				Category:       d.category,
				PickupLocation: d.pickup,
				Status:         model.StatusActive,
				CreatedAt:      base.Add(time.Duration(i) * time.Hour),
			}
			if err := tx.Create(&it).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
