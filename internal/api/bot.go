package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "iseg-kit/internal/application"
	"iseg-kit/internal/container"
	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/infrastructure/imageio"
)

const (
	msgStart = `👋 Привет! Я помогаю размечать объекты кликами.

📸 Отправьте изображение, затем маску объекта, и я покажу, куда кликнул бы разметчик.

📋 Команды:
/annotate — начать разметку изображения
/click — следующий корректирующий клик
/eval — сколько кликов нужно модели
/rle — сохранить разметку и получить RLE
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /annotate и отправьте изображение
2️⃣ Отправьте маску объекта (белый объект на чёрном фоне, лучше файлом)
3️⃣ /click — бот ставит клик в центр самой большой ошибки
4️⃣ /eval — бот считает, сколько кликов нужно модели до целевого IoU
5️⃣ /rle — разметка сохраняется, бот присылает RLE

🔴 красные точки — клики по фону
🔵 синие точки — клики по объекту`

	msgAwaitingImage   = "📸 Отправьте изображение для разметки."
	msgAwaitingMask    = "🎭 Теперь отправьте маску объекта того же размера."
	msgCancelled       = "❌ Операция отменена. Отправьте /annotate для новой разметки."
	msgSendImage       = "📸 Отправьте /annotate, чтобы начать разметку."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgNoSession       = "⚠️ Нет активной разметки. Отправьте /annotate."
	msgNoErrors        = "✅ Ошибок не осталось, предсказание совпадает с маской."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другой файл."
	msgShapeMismatch   = "⚠️ Размер маски не совпадает с изображением. Отправьте маску файлом без сжатия."
	msgNoPredictor     = "⚠️ Модель для оценки не подключена."
)

// Bot представляет Telegram-бота
type Bot struct {
	api    *tgbotapi.BotAPI
	app    *container.Container
	logger *logrus.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	c.Logger.WithField("account", api.Self.UserName).Info("authorized")

	return &Bot{
		api:    api,
		app:    c,
		logger: c.Logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// посты каналов приходят без отправителя
	if msg.From == nil {
		return
	}

	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.WithError(err).Error("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка изображений: фото или файл
	if fileID, name, ok := imageFile(msg); ok {
		b.handleImage(ctx, msg, user, fileID, name)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendImage)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.app.UserService.Cancel(ctx, user.ID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "annotate":
		b.app.UserService.BeginAnnotation(ctx, user.ID, chatID)
		b.sendMessage(chatID, msgAwaitingImage)

	case "click":
		b.handleClick(ctx, chatID)

	case "eval":
		b.handleEval(ctx, chatID)

	case "rle":
		b.handleFinish(ctx, user, chatID)

	case "cancel":
		b.app.AnnotationService.Cancel(ctx, user.ID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage принимает изображение или маску в зависимости от состояния
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID, name string) {
	chatID := msg.Chat.ID
	upload := b.app.UserService.ExpectedUpload(user)
	if upload == app.UploadNone {
		b.sendMessage(chatID, msgSendImage)
		return
	}

	data, err := b.downloadFile(fileID)
	if err != nil {
		b.logger.WithError(err).Error("download file")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		b.logger.WithError(err).WithField("bytes", len(data)).Warn("decode image")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if upload == app.UploadImage {
		if _, err := b.app.AnnotationService.AcceptImage(ctx, user.ID, chatID, name, img); err != nil {
			b.logger.WithError(err).Error("accept image")
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgAwaitingMask)
		return
	}

	rle, err := b.app.AnnotationService.AcceptMask(ctx, user.ID, chatID, entity.MaskFromImage(img))
	switch {
	case errors.Is(err, entity.ErrShapeMismatch):
		b.sendMessage(chatID, msgShapeMismatch)
		return
	case errors.Is(err, entity.ErrNoSession):
		b.sendMessage(chatID, msgNoSession)
		return
	case err != nil:
		b.logger.WithError(err).Error("accept mask")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.sendMessage(chatID, fmt.Sprintf("🎭 Маска принята: %dx%d, площадь объекта %d px.\n/click — первый клик.",
		rle.Size[1], rle.Size[0], rle.Area()))
}

// handleClick выполняет раунд коррекции и присылает картинку с кликами
func (b *Bot) handleClick(ctx context.Context, chatID int64) {
	out, err := b.app.AnnotationService.NextRound(ctx, chatID)
	switch {
	case errors.Is(err, entity.ErrNoSession), errors.Is(err, app.ErrNoGroundTruth):
		b.sendMessage(chatID, msgNoSession)
		return
	case err != nil:
		b.logger.WithError(err).Error("next round")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if out.Done {
		b.sendMessage(chatID, msgNoErrors)
	}
	b.sendImage(chatID, out.Overlay, formatRound(out))

	if out.Total == 0 {
		return
	}
	view, err := b.app.AnnotationService.ClickMapView(ctx, chatID, b.app.GaussianClicks)
	if err != nil {
		b.logger.WithError(err).Error("click map")
		return
	}
	b.sendImage(chatID, view, "Клики, восстановленные из карты расстояний")
}

// handleEval прогоняет симуляцию кликов против модели на изображении сессии
func (b *Bot) handleEval(ctx context.Context, chatID int64) {
	b.sendMessage(chatID, "⏳ Считаю число кликов...")

	res, err := b.app.AnnotationService.Evaluate(ctx, chatID, b.app.EvalOptions)
	switch {
	case errors.Is(err, entity.ErrNoSession), errors.Is(err, app.ErrNoGroundTruth):
		b.sendMessage(chatID, msgNoSession)
		return
	case errors.Is(err, entity.ErrPredictorUnavailable):
		b.sendMessage(chatID, msgNoPredictor)
		return
	case err != nil:
		b.logger.WithError(err).Error("evaluate")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.sendMessage(chatID, formatEval(res, b.app.EvalOptions))
}

// handleFinish сохраняет разметку и присылает RLE
func (b *Bot) handleFinish(ctx context.Context, user *entity.User, chatID int64) {
	a, rle, err := b.app.AnnotationService.Finish(ctx, user.ID, chatID)
	switch {
	case errors.Is(err, entity.ErrNoSession), errors.Is(err, app.ErrNoGroundTruth):
		b.sendMessage(chatID, msgNoSession)
		return
	case err != nil:
		b.logger.WithError(err).Error("finish annotation")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.sendMessage(chatID, fmt.Sprintf("💾 Разметка %s сохранена.\nsize: [%d, %d]\ncounts: %s",
		a.ID, rle.Size[0], rle.Size[1], a.Counts))
}

// formatRound собирает подпись к картинке раунда
func formatRound(out *app.RoundOutput) string {
	var sb strings.Builder
	if len(out.Clicks) == 0 {
		sb.WriteString("Новых кликов нет.")
	} else {
		parts := make([]string, len(out.Clicks))
		for i, c := range out.Clicks {
			parts[i] = c.String()
		}
		sb.WriteString("Клики: " + strings.Join(parts, ", ") + ".")
	}
	fmt.Fprintf(&sb, "\nВсего кликов: %d, IoU: %.3f", out.Total, out.IoU)
	return sb.String()
}

// formatEval описывает итог оценки числа кликов
func formatEval(res *app.EvalResult, opts app.EvalOptions) string {
	last := 0.0
	if len(res.IoUs) > 0 {
		last = res.IoUs[len(res.IoUs)-1]
	}
	if res.Reached {
		return fmt.Sprintf("📊 IoU %.2f достигнут за %d кликов (последний IoU %.3f).", opts.IoUThreshold, res.NoC, last)
	}
	return fmt.Sprintf("📊 За %d кликов IoU %.2f не достигнут, последний IoU %.3f.", opts.MaxClicks, opts.IoUThreshold, last)
}

// imageFile возвращает файл изображения из сообщения: фото максимального
// разрешения или документ с картинкой.
func imageFile(msg *tgbotapi.Message) (fileID, name string, ok bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, photo.FileUniqueID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, imageio.FileStem(msg.Document.FileName), true
	}
	return "", "", false
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).Error("send message")
	}
}

// sendImage отправляет PNG без потерь как документ, чтобы клики не размывались
func (b *Bot) sendImage(chatID int64, img image.Image, caption string) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		b.logger.WithError(err).Error("encode overlay")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "overlay.png", Bytes: buf.Bytes()})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		b.logger.WithError(err).Error("send overlay")
	}
}
