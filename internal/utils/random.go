package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var roles = []domain.Role{
	domain.RoleScheduler,
	domain.RoleManager,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

func GenerateRandomOperator(password string, emailDomainName string) (*domain.Operator, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	op := &domain.Operator{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return op, nil
}

// GenerateRandomClient 的客户编号由姓名拼音首字母加随机数字组成。
func GenerateRandomClient() *domain.Client {
	fullName := GenerateRandomChineseName()

	code := ""
	for _, py := range pinyin.LazyConvert(fullName, nil) {
		code += py[:1]
	}
	for i := 0; i < 4; i++ {
		code += string(digits[rand.Intn(len(digits))])
	}

	return &domain.Client{
		Code:     code,
		FullName: fullName,
		Address:  fmt.Sprintf("演示地址 %d 号", rand.Intn(200)+1),
	}
}

var serviceCodes = []string{"SVC-BODY", "SVC-LIFE", "SVC-ESCORT"}

// GenerateRandomNthWeeks 用 Fisher-Yates 洗牌生成一个随机的第 N 周子集。
func GenerateRandomNthWeeks() []int32 {
	weeks := []int32{1, 2, 3, 4, 5}

	for i := len(weeks) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		weeks[i], weeks[j] = weeks[j], weeks[i]
	}

	n := rand.Intn(len(weeks)) + 1

	return weeks[:n]
}

func GenerateRandomWeeklyTemplate(clientID int64) *domain.WeeklyTemplate {
	startHour := rand.Intn(12) + 8 // 8 ~ 19 点开始
	duration := rand.Intn(3) + 1   // 1 ~ 3 小时

	t := &domain.WeeklyTemplate{
		ClientID:           clientID,
		Weekday:            int32(rand.Intn(7)),
		StartTime:          fmt.Sprintf("%02d:00:00", startHour),
		EndTime:            fmt.Sprintf("%02d:00:00", (startHour+duration)%24),
		RequiredStaffCount: int32(rand.Intn(2) + 1),
		IsActive:           true,
		ServiceCode:        serviceCodes[rand.Intn(len(serviceCodes))],
	}

	if rand.Intn(10) < 3 {
		t.IsBiweekly = true
	}
	if rand.Intn(10) < 4 {
		t.NthWeeks = GenerateRandomNthWeeks()
	}
	if t.RequiredStaffCount >= 2 {
		t.TwoPersonWork = true
	}

	slotsNum := rand.Intn(int(t.RequiredStaffCount) + 1)
	for i := 0; i < slotsNum; i++ {
		staffID := int64(rand.Intn(50) + 1)
		t.StaffSlots = append(t.StaffSlots, domain.StaffSlot{
			StaffID:  &staffID,
			RoleCode: "HELPER",
		})
	}

	return t
}
