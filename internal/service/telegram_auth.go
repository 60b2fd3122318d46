package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInitDataInvalid = errors.New("invalid telegram init data")
	ErrInitDataExpired = errors.New("telegram init data expired")
)

// initDataMaxAge auth_date старше этого отклоняем (защита от replay)
const initDataMaxAge = time.Hour

// проверяет HMAC Telegram WebApp init_data и возвращает пользователя из поля user
func ValidateTelegramInitData(initData, botToken string, now time.Time) (User, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return User{}, ErrInitDataInvalid
	}

	hash := values.Get("hash")
	if hash == "" {
		return User{}, ErrInitDataInvalid
	}
	values.Del("hash")

	if !hmac.Equal(initDataHash(values, botToken), decodeHex(hash)) {
		return User{}, ErrInitDataInvalid
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return User{}, ErrInitDataInvalid
	}
	// разрешаем небольшую рассинхронизацию часов
	age := now.Sub(time.Unix(authDate, 0))
	if age > initDataMaxAge || age < -5*time.Minute {
		return User{}, ErrInitDataExpired
	}

	var tgUser struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	}
	if err := json.Unmarshal([]byte(values.Get("user")), &tgUser); err != nil || tgUser.ID == 0 {
		return User{}, ErrInitDataInvalid
	}

	name := tgUser.Username
	if name == "" {
		name = tgUser.FirstName
	}
	return User{ID: strconv.FormatInt(tgUser.ID, 10), Name: name}, nil
}

// Telegram WebApp использует HMAC с ключом "WebAppData"
func initDataHash(values url.Values, botToken string) []byte {
	var dataCheck []string
	for k, v := range values {
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(botToken))
	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(strings.Join(dataCheck, "\n")))
	return h.Sum(nil)
}

func decodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
