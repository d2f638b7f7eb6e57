package ui

import (
	"fmt"
	"io"
)

// PrintWelcome выводит приветствие и список команд
func PrintWelcome(w io.Writer) {
	fmt.Fprintln(w, Paint(ColorBold, IconForm+" Form Agent"))
	fmt.Fprintln(w, Paint(ColorGray, "Находит, заполняет и отправляет формы на незнакомых сайтах"))
	fmt.Fprintln(w)
	PrintHelp(w)
	fmt.Fprintln(w, Paint(ColorCyan, IconBulb+" Совет:")+" "+Paint(ColorYellow, "fill")+
		" принимает инструкцию целиком, например: fill log in at https://example.com as me@mail.com")
	fmt.Fprintln(w)
}

var commandHelp = [][2]string{
	{"fill <инструкция>", "Разобрать инструкцию и заполнить формы"},
	{"plan <инструкция>", "Показать, как разобрана инструкция"},
	{"open <url>", "Открыть страницу"},
	{"source", "Показать разметку текущей страницы"},
	{"close", "Закрыть браузер"},
	{"task <текст>", "Создать задачу"},
	{"tasks", "Список задач"},
	{"run <id>", "Выполнить задачу"},
	{"status <id>", "Статус задачи"},
	{"show <id>", "Детали задачи и прогоны"},
	{"logs <id>", "LLM логи задачи"},
	{"clear", "Очистить экран"},
	{"exit", "Выход"},
}

// PrintHelp выводит список доступных команд
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, Paint(ColorYellow, IconList+" Доступные команды:"))
	for _, c := range commandHelp {
		fmt.Fprintf(w, "  %s%-20s%s - %s\n", ColorGreen, c[0], ColorReset, c[1])
	}
	fmt.Fprintln(w)
}
