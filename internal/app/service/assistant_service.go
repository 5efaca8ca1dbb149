package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/pkg/logger"
	"github.com/vibeprint/storefront/pkg/util"
)

var ErrEmptyMessage = errors.New("message is empty")

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type AssistantLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type AssistantMessage struct {
	ID            string         `json:"id"`
	Sender        string         `json:"sender"`
	Text          string         `json:"text"`
	Link          *AssistantLink `json:"link,omitempty"`
	Suggestions   []string       `json:"suggestions,omitempty"`
	IsOrderOption bool           `json:"isOrderOption,omitempty"`
	Intent        string         `json:"intent,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

type AssistantExchange struct {
	Message AssistantMessage `json:"message"`
	Reply   AssistantMessage `json:"reply"`
}

type AssistantBusinessInfo struct {
	BusinessHours  string
	WhatsAppNumber string
	MpesaPayBill   string
	MpesaAccount   string
	PhoneNumber    string
}

// AssistantService answers shopper questions from a fixed, ordered rule list.
type AssistantService interface {
	Welcome() AssistantMessage
	Reply(ctx context.Context, message string) (*AssistantExchange, error)
}

type assistantRule struct {
	intent  string
	pattern *regexp.Regexp
	respond func(s *assistantService) (AssistantMessage, error)
}

type assistantService struct {
	products ProductService
	info     AssistantBusinessInfo
	now      func() time.Time
}

func NewAssistantService(products ProductService, info AssistantBusinessInfo) AssistantService {
	if info.PhoneNumber == "" {
		info.PhoneNumber = "0722 000 000"
	}
	return &assistantService{
		products: products,
		info:     info,
		now:      time.Now,
	}
}

// Rules are tried in order; the first whose pattern occurs anywhere in the
// message wins.
var assistantRules = []assistantRule{
	{intent: "greeting", pattern: regexp.MustCompile(`(?i)hello|hi|hey|howdy|greetings`), respond: (*assistantService).greetingReply},
	{intent: "hours", pattern: regexp.MustCompile(`(?i)hours|schedule|time|open|close|9|6|9-6`), respond: (*assistantService).hoursReply},
	{intent: "order", pattern: regexp.MustCompile(`(?i)order|buy|purchase|checkout|cart|place an order`), respond: (*assistantService).orderReply},
	{intent: "whatsapp", pattern: regexp.MustCompile(`(?i)whatsapp|wa|what's app`), respond: (*assistantService).whatsAppReply},
	{intent: "mpesa", pattern: regexp.MustCompile(`(?i)mpesa|m-pesa|mobile money|pay|payment`), respond: (*assistantService).mpesaReply},
	{intent: "agent", pattern: regexp.MustCompile(`(?i)agent|human|person|representative|talk to someone`), respond: (*assistantService).agentReply},
	{intent: "tote-bags", pattern: regexp.MustCompile(`(?i)tote|bag|backpack|pouch`), respond: (*assistantService).toteReply},
	{intent: "drinkware", pattern: regexp.MustCompile(`(?i)mug|cup|drinkware|thermos`), respond: (*assistantService).drinkwareReply},
}

func (s *assistantService) Welcome() AssistantMessage {
	return s.botMessage("welcome", AssistantMessage{
		Text: "Hello! I'm VibePrint's AI assistant. How can I help you with our products today?",
		Suggestions: []string{
			"What tote bags do you have?",
			"Tell me about your mugs",
			"How do I place an order?",
			"What are your working hours?",
		},
	})
}

func (s *assistantService) Reply(ctx context.Context, message string) (*AssistantExchange, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	user := AssistantMessage{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Text:      text,
		Timestamp: s.now(),
	}

	lower := strings.ToLower(text)
	for _, rule := range assistantRules {
		if !rule.pattern.MatchString(lower) {
			continue
		}
		reply, err := rule.respond(s)
		if err != nil {
			logger.Error("Assistant rule failed", err, map[string]interface{}{
				"intent": rule.intent,
			})
			return nil, err
		}
		logger.Debug("Assistant matched rule", map[string]interface{}{
			"intent": rule.intent,
		})
		return &AssistantExchange{Message: user, Reply: s.botMessage(rule.intent, reply)}, nil
	}

	return &AssistantExchange{Message: user, Reply: s.botMessage("default", s.defaultReply())}, nil
}

func (s *assistantService) botMessage(intent string, m AssistantMessage) AssistantMessage {
	m.ID = uuid.NewString()
	m.Sender = SenderBot
	m.Intent = intent
	m.Timestamp = s.now()
	return m
}

func (s *assistantService) greetingReply() (AssistantMessage, error) {
	return AssistantMessage{
		Text: "Hello! Welcome to VibePrint. How can I assist you with our products today?",
		Suggestions: []string{
			"Show me your products",
			"How do I place an order?",
			"What's your pricing?",
			"Do you have any discounts?",
		},
	}, nil
}

func (s *assistantService) hoursReply() (AssistantMessage, error) {
	return AssistantMessage{
		Text: s.info.BusinessHours,
		Suggestions: []string{
			"Place an order",
			"Contact an agent",
			"What products do you have?",
			"Do you offer delivery?",
		},
	}, nil
}

func (s *assistantService) orderReply() (AssistantMessage, error) {
	return AssistantMessage{
		Text: "You can place orders directly through our WhatsApp business account or via M-Pesa payment. Would you like to:",
		Suggestions: []string{
			"Order via WhatsApp",
			"Order via M-Pesa",
			"Speak to a human agent",
		},
		IsOrderOption: true,
	}, nil
}

func (s *assistantService) whatsAppReply() (AssistantMessage, error) {
	return AssistantMessage{
		Text: "Great! You can place your order through our WhatsApp business account. Our team will assist you with product selection and process your order.\n\n" +
			"Click the link below to start your order on WhatsApp:",
		Link: &AssistantLink{
			Label: "Open WhatsApp",
			URL:   WhatsAppOrderLink(util.NormalizePhone(s.info.WhatsAppNumber), "Hello VibePrint! I would like to place an order."),
		},
		Suggestions: []string{
			"What products are available?",
			"How long does delivery take?",
			"What are your payment options?",
		},
	}, nil
}

func (s *assistantService) mpesaReply() (AssistantMessage, error) {
	steps := []string{
		"Go to M-Pesa on your phone",
		"Select Lipa Na M-Pesa",
		"Select Pay Bill",
		"Enter business number: " + s.info.MpesaPayBill,
		"Enter account number: " + s.info.MpesaAccount,
		"Enter the amount",
		"Enter your M-Pesa PIN and confirm",
	}

	var b strings.Builder
	b.WriteString("To order via M-Pesa:\n")
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&b, "\nAfter payment, please WhatsApp us the confirmation message at %s with your order details.", s.info.WhatsAppNumber)

	return AssistantMessage{
		Text: b.String(),
		Suggestions: []string{
			"What's your M-Pesa PayBill number?",
			"How do I send order details?",
			"Speak to an agent",
		},
	}, nil
}

func (s *assistantService) agentReply() (AssistantMessage, error) {
	text := fmt.Sprintf("I'd be happy to connect you with one of our customer service agents during our business hours (%s).\n\n"+
		"You can reach our team directly via WhatsApp at %s or call us at %s.\n\n"+
		"Would you like me to help you with something else while you wait?",
		s.info.BusinessHours, s.info.WhatsAppNumber, s.info.PhoneNumber)

	return AssistantMessage{
		Text: text,
		Suggestions: []string{
			"What are your working hours?",
			"Products overview",
			"Delivery information",
		},
	}, nil
}

func (s *assistantService) toteReply() (AssistantMessage, error) {
	totes, err := s.products.ListProducts(ProductListOptions{Category: "tote-bags", InStockOnly: true})
	if err != nil {
		return AssistantMessage{}, err
	}

	var text string
	if len(totes) == 0 {
		text = "Our tote bags are currently out of stock. Would you like to hear about our other products?"
	} else {
		top := totes[0]
		text = fmt.Sprintf("We have %d tote bags available. Our most popular is \"%s\" for Kes %d.\n\nFeatures: %s\n\nWould you like to place an order?",
			len(totes), top.Name, top.Price, describe(top, "Durable, stylish, and customizable."))
	}

	return AssistantMessage{
		Text: text,
		Suggestions: []string{
			"Order via WhatsApp",
			"Order via M-Pesa",
			"See more products",
			"What colors are available?",
		},
		IsOrderOption: true,
	}, nil
}

func (s *assistantService) drinkwareReply() (AssistantMessage, error) {
	drinks, err := s.products.ListProducts(ProductListOptions{Category: "drinkware", InStockOnly: true})
	if err != nil {
		return AssistantMessage{}, err
	}

	var text string
	if len(drinks) == 0 {
		text = "Our drinkware is currently out of stock. Can I help you with something else?"
	} else {
		pick := drinks[0]
		for _, p := range drinks {
			if strings.Contains(strings.ToLower(p.Name), "mug") {
				pick = p
				break
			}
		}
		text = fmt.Sprintf("We offer %d drinkware products. Our %s is Kes %d and holds %s. Can I help you place an order?",
			len(drinks), pick.Name, pick.Price, describe(pick, "12oz of your favorite beverage"))
	}

	return AssistantMessage{
		Text: text,
		Suggestions: []string{
			"Order via WhatsApp",
			"Order via M-Pesa",
			"What types of mugs do you have?",
			"Are they dishwasher safe?",
		},
		IsOrderOption: true,
	}, nil
}

func (s *assistantService) defaultReply() AssistantMessage {
	return AssistantMessage{
		Text: "I'm here to help you with product information, ordering, and recommendations. What would you like to know about our products or services?",
		Suggestions: []string{
			"How do I place an order?",
			"What are your working hours?",
			"What products do you have?",
			"Speak to an agent",
		},
	}
}

func describe(p model.Product, fallback string) string {
	if p.Description != "" {
		return p.Description
	}
	return fallback
}
