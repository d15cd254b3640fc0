package ai

import (
	"context"
	"fmt"

	"foodtruck-pos/internal/apperr"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// maxToolRounds bounds how many times the model may call tools for one question.
const maxToolRounds = 5

const systemPrompt = `SYSTEM: Today is %s. You are the assistant of a food truck point of sale.

RULES:
1. SALES: For revenue, totals or best sellers, call 'get_sales_report'. Use "day" for a date or the last week, "month" or "year" otherwise.
2. MENU: For prices or what is sold, call 'list_menu'. Do NOT ask the user for IDs.
3. ORDERS: For orders waiting to be served, call 'list_pending_orders'.
4. OPEN/CLOSED: For whether the truck is open, call 'get_business_status'.
5. Amounts are whole numbers in the local currency. You cannot change any data.

USER: %s`

// Assistant answers questions about one truck with Gemini function calling.
type Assistant struct {
	client *genai.Client
	model  string
	tools  *Toolbox
	log    logrus.FieldLogger
}

func NewAssistant(ctx context.Context, apiKey, model string, tools *Toolbox, log logrus.FieldLogger) (*Assistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &Assistant{client: client, model: model, tools: tools, log: log}, nil
}

func (a *Assistant) Close() error {
	return a.client.Close()
}

// Ask answers message for truckID, running any tools the model asks for.
func (a *Assistant) Ask(ctx context.Context, truckID uint, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.Tools = []*genai.Tool{{FunctionDeclarations: a.tools.Declarations()}}
	chat := model.StartChat()

	resp, err := chat.SendMessage(ctx, genai.Text(fmt.Sprintf(systemPrompt, a.tools.today(), message)))
	if err != nil {
		return "", errors.Wrap(err, "ask gemini")
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return replyText(resp), nil
		}

		answers := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			answers = append(answers, a.run(ctx, truckID, call))
		}
		if resp, err = chat.SendMessage(ctx, answers...); err != nil {
			return "", errors.Wrap(err, "send tool results")
		}
	}
	return replyText(resp), nil
}

func (a *Assistant) run(ctx context.Context, truckID uint, call genai.FunctionCall) genai.FunctionResponse {
	log := a.log.WithFields(logrus.Fields{"tool": call.Name, "truck_id": truckID})

	out, err := a.tools.Call(ctx, truckID, call.Name, call.Args)
	if err != nil {
		log.WithError(err).Warn("assistant tool failed")
		return genai.FunctionResponse{Name: call.Name, Response: map[string]interface{}{"error": apperr.Message(err)}}
	}
	log.Debug("assistant tool called")
	return genai.FunctionResponse{Name: call.Name, Response: map[string]interface{}{"result": out}}
}

func content(resp *genai.GenerateContentResponse) *genai.Content {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	return resp.Candidates[0].Content
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	c := content(resp)
	if c == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range c.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func replyText(resp *genai.GenerateContentResponse) string {
	if c := content(resp); c != nil {
		for _, part := range c.Parts {
			if txt, ok := part.(genai.Text); ok {
				return string(txt)
			}
		}
	}
	return "I could not find an answer to that."
}
